package queue

import (
	"errors"
	"testing"

	"github.com/hibiken/asynq"
)

func TestDecodePayload(t *testing.T) {
	task, err := NewRecipientCreatedTask(RecipientCreatedPayload{RecipientID: "R20240520_001", Name: "张三", Total: 7})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskRecipientCreated {
		t.Fatalf("task type want %s got %s", TaskRecipientCreated, task.Type())
	}
	payload, err := DecodePayload[RecipientCreatedPayload](task)
	if err != nil || payload.RecipientID != "R20240520_001" || payload.Total != 7 {
		t.Fatalf("unexpected payload: %+v err=%v", payload, err)
	}

	_, err = DecodePayload[BackupReminderPayload](asynq.NewTask(TaskBackupReminder, []byte("not-json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload should skip retry, got %v", err)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client without config should be disabled")
	}
	if err := client.EnqueueBackupReminder(BackupReminderPayload{Total: 10}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" || cfg.Concurrency != 10 {
		t.Fatalf("unexpected defaults: addr=%s concurrency=%d", opt.Addr, cfg.Concurrency)
	}
	if cfg.Queues[DefaultQueue] != 1 || cfg.Queues[CriticalQueue] != 1 {
		t.Fatalf("both queues should be served, got %v", cfg.Queues)
	}
}
