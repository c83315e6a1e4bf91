package state

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if _, err := uuid.Parse(env.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", env.RunID, err)
	}
}

func TestContextWithEnv_DistinctRuns(t *testing.T) {
	a := EnvFromContext(ContextWithEnv(context.Background()))
	b := EnvFromContext(ContextWithEnv(context.Background()))
	if a.RunID == b.RunID {
		t.Errorf("two environments share run id %s", a.RunID)
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		if EnvFromContext(ctx) == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()

		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > 5*time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_SetLogger(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	core, logs := observer.New(zap.InfoLevel)

	env.SetLogger(zap.New(core))
	env.Log.Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["run"]; got != env.RunID {
		t.Errorf("run field = %v, want %s", got, env.RunID)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		env := &LocalEnv{Log: zap.New(core)}

		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Fatal("Expected restoreStdLog to be set")
		}
		log.Print("from std log")
		env.RestoreStdLog()

		if logs.FilterMessage("from std log").Len() != 1 {
			t.Errorf("std log output was not redirected: %v", logs.All())
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to stay nil")
		}
		env.RestoreStdLog()
	})

	t.Run("zaptest logger", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		env.RedirectStdLog()
		env.RestoreStdLog()
	})
}
