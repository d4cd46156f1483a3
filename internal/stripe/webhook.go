package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is how far a webhook timestamp may drift before the
// signature is rejected, matching the processor SDK default.
const DefaultTolerance = 5 * time.Minute

// ErrInvalidSignature is returned for any malformed, mismatched, or
// stale webhook signature header.
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// EventTypePaymentSucceeded is the processor event reporting a settled charge.
const EventTypePaymentSucceeded = "payment_intent.succeeded"

// Event is the processor's webhook event envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// IntentObject extracts the payment intent carried by a payment event.
func (e *Event) IntentObject() (*Intent, error) {
	var intent Intent
	if err := json.Unmarshal(e.Data.Object, &intent); err != nil {
		return nil, fmt.Errorf("decoding event object: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("event object has no intent id")
	}
	return &intent, nil
}

// ConstructEvent verifies the signature header against the shared secret
// and decodes the event payload. The header carries a unix timestamp and
// one or more HMAC-SHA256 signatures over "<timestamp>.<payload>" in the
// form "t=...,v1=...".
func ConstructEvent(payload []byte, sigHeader, secret string, tolerance time.Duration) (*Event, error) {
	if err := verifySignature(payload, sigHeader, secret, tolerance, time.Now()); err != nil {
		return nil, err
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	return &event, nil
}

func verifySignature(payload []byte, sigHeader, secret string, tolerance time.Duration, now time.Time) error {
	if sigHeader == "" {
		return ErrInvalidSignature
	}

	var timestamp int64
	var signatures [][]byte

	for _, part := range strings.Split(sigHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(v)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	if tolerance > 0 {
		drift := now.Sub(time.Unix(timestamp, 0))
		if drift > tolerance || drift < -tolerance {
			return ErrInvalidSignature
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// SignPayload builds a signature header for the given payload. Used by
// tests and local tooling to fabricate webhook deliveries.
func SignPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}
