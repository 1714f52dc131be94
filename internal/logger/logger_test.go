package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestNewParsesLevel(t *testing.T) {
	log := New(Options{Level: "debug", AppEnv: "test"})
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v", log.GetLevel())
	}

	log = New(Options{Level: "nonsense", AppEnv: "test"})
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("fallback level = %v", log.GetLevel())
	}
}

func TestErrorWithTraceID(t *testing.T) {
	log, hook := test.NewNullLogger()

	id := ErrorWithTraceID(log, Fields{"op": "create_payment"}, "save failed")
	if len(id) != 8 {
		t.Fatalf("trace id = %q", id)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.ErrorLevel {
		t.Fatalf("level = %v", entry.Level)
	}
	if entry.Data["trace_id"] != id {
		t.Fatalf("trace_id field = %v, want %s", entry.Data["trace_id"], id)
	}
	if entry.Data["op"] != "create_payment" {
		t.Fatalf("op field = %v", entry.Data["op"])
	}
}
