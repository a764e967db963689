package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestQueue(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client, err := newQueueClient("redis://" + server.Addr() + "/0")
	if err != nil {
		t.Fatalf("newQueueClient error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return server, client
}

func TestNewQueueClientInvalidURL(t *testing.T) {
	if _, err := newQueueClient("http://nope"); err == nil {
		t.Fatalf("expected error for non redis URL")
	}
}

func TestPopJob(t *testing.T) {
	server, client := newTestQueue(t)
	if _, err := server.Lpush(queueKey("default"), `{"class":"GoWorker","args":[12],"queue":"default"}`); err != nil {
		t.Fatalf("lpush: %v", err)
	}

	job, payload, err := popJob(context.Background(), client, queueKey("default"), time.Second)
	if err != nil {
		t.Fatalf("popJob error: %v", err)
	}
	if job == nil || job.Class != "GoWorker" || job.Queue != "default" || len(job.Args) != 1 {
		t.Fatalf("unexpected job: %#v", job)
	}
	if payload == "" {
		t.Fatalf("expected raw payload")
	}
}

func TestPopJobInvalidJSON(t *testing.T) {
	server, client := newTestQueue(t)
	server.Lpush(queueKey("default"), `{"class":`)

	job, payload, err := popJob(context.Background(), client, queueKey("default"), time.Second)
	if err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if job != nil || payload != `{"class":` {
		t.Fatalf("unexpected result: %#v %q", job, payload)
	}
}

func TestPopJobTimeout(t *testing.T) {
	_, client := newTestQueue(t)

	job, payload, err := popJob(context.Background(), client, queueKey("empty"), time.Second)
	if err != nil {
		t.Fatalf("popJob error: %v", err)
	}
	if job != nil || payload != "" {
		t.Fatalf("expected empty timeout result, got %#v %q", job, payload)
	}
}
