package workerproc

import (
	"context"
	"errors"
	"testing"

	"resume-screener/internal/queue"
)

type fakeProcessor struct {
	screenings []string
	batches    []string
	err        error
}

func (f *fakeProcessor) ProcessScreening(ctx context.Context, screeningID string) error {
	f.screenings = append(f.screenings, screeningID)
	return f.err
}

func (f *fakeProcessor) ProcessBatch(ctx context.Context, batchID string) error {
	f.batches = append(f.batches, batchID)
	return f.err
}

func encode(t *testing.T, msg queue.Message) string {
	t.Helper()
	payload, err := queue.EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(payload)
}

func TestHandleMessageDispatchesBatch(t *testing.T) {
	proc := &fakeProcessor{}
	body := encode(t, queue.Message{BatchID: "batch-1", RequestID: "req-1", Version: 1})

	if err := HandleMessage(context.Background(), proc, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.batches) != 1 || proc.batches[0] != "batch-1" {
		t.Errorf("batches = %v", proc.batches)
	}
	if len(proc.screenings) != 0 {
		t.Errorf("screenings = %v, want none", proc.screenings)
	}
}

func TestHandleMessageDispatchesScreening(t *testing.T) {
	proc := &fakeProcessor{}
	body := encode(t, queue.Message{ScreeningID: "screening-1", Version: 1})

	if err := HandleMessage(context.Background(), proc, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(proc.screenings) != 1 || proc.screenings[0] != "screening-1" {
		t.Errorf("screenings = %v", proc.screenings)
	}
}

func TestParseMessageErrors(t *testing.T) {
	if _, _, err := ParseMessage("  "); err == nil {
		t.Error("empty body must fail")
	} else {
		var empty ErrEmptyBody
		if !errors.As(err, &empty) {
			t.Errorf("err = %T, want ErrEmptyBody", err)
		}
	}

	if _, _, err := ParseMessage("{broken"); err == nil {
		t.Error("garbage must fail")
	} else {
		var decode ErrDecode
		if !errors.As(err, &decode) {
			t.Errorf("err = %T, want ErrDecode", err)
		}
	}

	if _, _, err := ParseMessage(`{"requestId":"r"}`); err == nil {
		t.Error("targetless message must fail")
	} else {
		var missing ErrMissingTarget
		if !errors.As(err, &missing) {
			t.Errorf("err = %T, want ErrMissingTarget", err)
		}
	}
}

func TestHandleMessageWrapsProcessorError(t *testing.T) {
	underlying := errors.New("repo down")
	proc := &fakeProcessor{err: underlying}
	body := encode(t, queue.Message{BatchID: "batch-1"})

	err := HandleMessage(context.Background(), proc, body)
	if !errors.Is(err, underlying) {
		t.Fatalf("err = %v, want wrapped repo error", err)
	}
	var procErr ErrProcess
	if !errors.As(err, &procErr) || procErr.BatchID != "batch-1" {
		t.Errorf("err = %+v, want ErrProcess with batch id", err)
	}
}
