// Package workerproc decodes queue payloads and dispatches them to the
// screenings service. It isolates poll-loop plumbing from business logic so
// both can be tested alone.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"resume-screener/internal/queue"
)

// Processor is the part of the screenings service the worker drives.
type Processor interface {
	ProcessScreening(ctx context.Context, screeningID string) error
	ProcessBatch(ctx context.Context, batchID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingTarget indicates a message naming neither a screening nor a batch.
type ErrMissingTarget struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingTarget) Error() string { return "message names no screening or batch" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	ScreeningID string
	BatchID     string
	RequestID   string
	Err         error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process message"
	}
	return "process message: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ScreeningID) == "" && strings.TrimSpace(msg.BatchID) == "" {
		return msg, meta, ErrMissingTarget{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses, validates, and processes a message payload.
func HandleMessage(ctx context.Context, processor Processor, body string) error {
	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	if msg.BatchID != "" {
		if err := processor.ProcessBatch(ctx, msg.BatchID); err != nil {
			return ErrProcess{BatchID: msg.BatchID, RequestID: msg.RequestID, Err: err}
		}
		return nil
	}
	if err := processor.ProcessScreening(ctx, msg.ScreeningID); err != nil {
		return ErrProcess{ScreeningID: msg.ScreeningID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
