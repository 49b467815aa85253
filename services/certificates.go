package services

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"campus-governance-api/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const certificateDispatchTimeout = 30 * time.Second

// CertificateRequest is the signal emitted after an event's scores are locked.
type CertificateRequest struct {
	RequestID   string    `json:"request_id"`
	EventID     int       `json:"event_id"`
	RequestedBy int       `json:"requested_by"`
	LockedAt    time.Time `json:"locked_at"`
	Comment     string    `json:"comment,omitempty"`
}

func newCertificateRequest(eventID, actorID int, lockedAt time.Time, comment string) CertificateRequest {
	return CertificateRequest{
		RequestID:   uuid.NewString(),
		EventID:     eventID,
		RequestedBy: actorID,
		LockedAt:    lockedAt.UTC(),
		Comment:     comment,
	}
}

// CertificateRequester hands a request to the external certificate service.
// Implementations must not wait for certificates to be produced.
type CertificateRequester interface {
	RequestCertificates(ctx context.Context, req CertificateRequest) error
}

var (
	defaultRequesterMu sync.RWMutex
	defaultRequester   CertificateRequester = LogCertificateRequester{}
)

// SetDefaultCertificateRequester replaces the requester used when a service is built without one.
func SetDefaultCertificateRequester(r CertificateRequester) {
	if r == nil {
		r = LogCertificateRequester{}
	}
	defaultRequesterMu.Lock()
	defer defaultRequesterMu.Unlock()
	defaultRequester = r
}

// DefaultCertificateRequester returns the process-wide requester.
func DefaultCertificateRequester() CertificateRequester {
	defaultRequesterMu.RLock()
	defer defaultRequesterMu.RUnlock()
	return defaultRequester
}

// NewCertificateRequesterFromConfig builds the requester named by CERTIFICATE_SINK.
func NewCertificateRequesterFromConfig(cfg config.AppConfig) (CertificateRequester, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.CertificateSink)) {
	case "", "log":
		return LogCertificateRequester{}, nil
	case "kafka":
		return NewKafkaCertificateRequester(cfg.KafkaBrokers, cfg.KafkaCertificateTopic)
	case "mail":
		return NewMailCertificateRequester([]string{cfg.CertificateOfficeEmail}, config.SendMail)
	default:
		return nil, fmt.Errorf("unknown CERTIFICATE_SINK %q", cfg.CertificateSink)
	}
}

// dispatchCertificateRequest sends req in the background. The request context may
// already be finished by then, so cancellation is detached from it.
func dispatchCertificateRequest(ctx context.Context, requester CertificateRequester, req CertificateRequest) {
	if requester == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)

	go func() {
		sendCtx, cancel := context.WithTimeout(ctx, certificateDispatchTimeout)
		defer cancel()
		if err := requester.RequestCertificates(sendCtx, req); err != nil {
			log.Printf("certificate request %s for event %d failed: %v", req.RequestID, req.EventID, err)
			return
		}
		log.Printf("certificate request %s for event %d dispatched", req.RequestID, req.EventID)
	}()
}

// LogCertificateRequester only writes the request to the application log.
type LogCertificateRequester struct{}

func (LogCertificateRequester) RequestCertificates(_ context.Context, req CertificateRequest) error {
	log.Printf("certificate generation requested: event=%d request=%s by=%d", req.EventID, req.RequestID, req.RequestedBy)
	return nil
}

// KafkaCertificateRequester publishes requests to a topic keyed by event id, so
// repeated requests for one event land on one partition in order.
type KafkaCertificateRequester struct {
	writer *kafka.Writer
}

func NewKafkaCertificateRequester(brokers []string, topic string) (*KafkaCertificateRequester, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker required")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka: topic required")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaCertificateRequester{writer: w}, nil
}

func certificateMessage(req CertificateRequest) (kafka.Message, error) {
	value, err := json.Marshal(req)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode certificate request: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.Itoa(req.EventID)),
		Value: value,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "request_id", Value: []byte(req.RequestID)},
		},
	}, nil
}

func (k *KafkaCertificateRequester) RequestCertificates(ctx context.Context, req CertificateRequest) error {
	msg, err := certificateMessage(req)
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publish certificate request: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (k *KafkaCertificateRequester) Close() error {
	return k.writer.Close()
}

// MailSender matches config.SendMail.
type MailSender func(to []string, subject, html string) error

// MailCertificateRequester emails the certificate office.
type MailCertificateRequester struct {
	to   []string
	send MailSender
}

func NewMailCertificateRequester(to []string, send MailSender) (*MailCertificateRequester, error) {
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("mail: CERTIFICATE_OFFICE_EMAIL is not configured")
	}
	if send == nil {
		return nil, fmt.Errorf("mail: sender is required")
	}
	return &MailCertificateRequester{to: recipients, send: send}, nil
}

func (m *MailCertificateRequester) RequestCertificates(_ context.Context, req CertificateRequest) error {
	subject := fmt.Sprintf("Certificate generation requested for event #%d", req.EventID)
	body := fmt.Sprintf(
		"<p>Scores for event <strong>#%d</strong> were locked at %s by user #%d.</p>"+
			"<p>Please generate participation and winner certificates.</p>"+
			"<p>Request ID: <code>%s</code></p>",
		req.EventID,
		html.EscapeString(req.LockedAt.Format(time.RFC3339)),
		req.RequestedBy,
		html.EscapeString(req.RequestID),
	)
	if req.Comment != "" {
		body += fmt.Sprintf("<p>Comment: %s</p>", html.EscapeString(req.Comment))
	}
	return m.send(m.to, subject, body)
}
