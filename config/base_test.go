package config

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func setenv(key, value string) {
	prev, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

func writeFile(name, content string) string {
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	return path
}

var _ = Describe("Base", func() {
	BeforeEach(func() {
		for _, key := range []string{"APP_ENV", "REDIS_URL", "WORKER_QUEUE"} {
			setenv(key, "")
			os.Unsetenv(key)
		}
	})

	Describe("NewWithDefaults", func() {
		It("Returns new Config struct instance", func() {
			cfg := NewWithDefaults()

			Expect(cfg.Plot).To(Equal("histogram"))
			Expect(cfg.Listen).To(Equal(":8080"))
			Expect(cfg.Queue).To(Equal("default"))
			Expect(cfg.LogLevel()).To(Equal("info"))
		})
	})

	Describe("Parse", func() {
		It("Applies flags over defaults", func() {
			cfg, err := Parse("stats", []string{"--data", "1 2 3", "--plot", "both", "-v"})

			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Data).To(Equal("1 2 3"))
			Expect(cfg.Plot).To(Equal("both"))
			Expect(cfg.Verbose).To(BeTrue())
			Expect(cfg.LogLevel()).To(Equal("debug"))
		})

		It("Reads the test run id from a positional argument", func() {
			cfg, err := Parse("stats", []string{"42"})

			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.TestRunID).To(Equal(int64(42)))
		})

		It("Rejects a positional argument that is not an id", func() {
			_, err := Parse("stats", []string{"abc"})

			Expect(err).To(MatchError(ContainSubstring(`invalid test run id "abc"`)))
		})

		It("Rejects unknown flags", func() {
			_, err := Parse("stats", []string{"--bogus"})

			Expect(err).To(HaveOccurred())
		})

		Context("When a config file is given", func() {
			var path string

			BeforeEach(func() {
				path = writeFile("stats.yaml", "plot: boxplot\nlisten: \":9090\"\nqueue: stats\ncolumn: score\n")
			})

			It("Layers file, environment and flags", func() {
				setenv("WORKER_QUEUE", "from-env")

				cfg, err := Parse("stats", []string{"--serve", "--config", path, "--column", "age"})

				Expect(err).ToNot(HaveOccurred())
				Expect(cfg.ConfigFile).To(Equal(path))
				Expect(cfg.Plot).To(Equal("boxplot"))
				Expect(cfg.Listen).To(Equal(":9090"))
				Expect(cfg.Queue).To(Equal("from-env"))
				Expect(cfg.Column).To(Equal("age"))
				Expect(cfg.Serve).To(BeTrue())
			})

			It("Fails on unknown keys", func() {
				bad := writeFile("bad.yaml", "plots: boxplot\n")

				_, err := Parse("stats", []string{"--config=" + bad})

				Expect(err).To(MatchError(ContainSubstring("parse config file")))
			})

			It("Fails when the file is missing", func() {
				_, err := Parse("stats", []string{"--config", filepath.Join(GinkgoT().TempDir(), "none.yaml")})

				Expect(err).To(MatchError(ContainSubstring("read config file")))
			})
		})
	})

	Describe("ApplyEnv", func() {
		It("Overlays the shared environment", func() {
			setenv("APP_ENV", "production")
			setenv("REDIS_URL", "redis://cache:6379/2")

			cfg := NewWithDefaults()
			cfg.ApplyEnv()

			Expect(cfg.Environment).To(Equal("production"))
			Expect(cfg.RedisURL).To(Equal("redis://cache:6379/2"))
			Expect(cfg.Queue).To(Equal("default"))
		})
	})

	Describe("LoadDotEnv", func() {
		It("Skips missing files and loads existing ones", func() {
			path := writeFile(".env", "WORKER_QUEUE=dotenv\n")
			DeferCleanup(os.Unsetenv, "WORKER_QUEUE")

			Expect(LoadDotEnv(filepath.Join(filepath.Dir(path), "missing.env"), path)).To(Succeed())
			Expect(os.Getenv("WORKER_QUEUE")).To(Equal("dotenv"))
		})

		It("Does not override variables already set", func() {
			setenv("WORKER_QUEUE", "preset")
			path := writeFile(".env", "WORKER_QUEUE=dotenv\n")

			Expect(LoadDotEnv(path)).To(Succeed())
			Expect(os.Getenv("WORKER_QUEUE")).To(Equal("preset"))
		})
	})
})
