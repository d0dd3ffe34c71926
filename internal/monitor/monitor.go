package monitor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sozercan/screenai/apimodels"
	"github.com/sozercan/screenai/internal/config"
	"github.com/sozercan/screenai/internal/journal"
	"github.com/sozercan/screenai/internal/ocr"
)

type State int

const (
	StateCapturing State = iota
	StateExtracting
	StateQuerying
	StateLogging
	StateWaiting
)

func (s State) String() string {
	switch s {
	case StateCapturing:
		return "capturing"
	case StateExtracting:
		return "extracting"
	case StateQuerying:
		return "querying"
	case StateLogging:
		return "logging"
	case StateWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Outcome describes how a single iteration ended.
type Outcome int

const (
	OutcomeLogged Outcome = iota
	OutcomeCaptureFailed
	OutcomeNoText
	OutcomeExtractFailed
	OutcomeLogFailed
	OutcomeInterrupted
)

type Capturer interface {
	Capture(ctx context.Context, path string) (string, error)
}

type Extractor interface {
	Extract(ctx context.Context, imagePath string) (string, error)
}

type Querier interface {
	Query(ctx context.Context, text string) string
}

type Recorder interface {
	Append(text, response string) (journal.Entry, error)
}

// Monitor runs the capture, extract, query, log cycle until its context is
// cancelled.
type Monitor struct {
	capturer       Capturer
	extractor      Extractor
	querier        Querier
	recorder       Recorder
	screenshotPath string
	delay          time.Duration
	status         *Status

	after func(time.Duration) <-chan time.Time
}

func New(cfg config.MonitorConfig, screenshotPath string, c Capturer, e Extractor, q Querier, r Recorder) *Monitor {
	return &Monitor{
		capturer:       c,
		extractor:      e,
		querier:        q,
		recorder:       r,
		screenshotPath: screenshotPath,
		delay:          cfg.Delay,
		status:         NewStatus(),
		after:          time.After,
	}
}

func (m *Monitor) Status() *Status {
	return m.status
}

// Run blocks until ctx is cancelled and then returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("Starting screen AI capture process ...", "screenshot", m.screenshotPath, "delay", m.delay)

	for ctx.Err() == nil {
		if m.iterate(ctx) == OutcomeInterrupted {
			break
		}

		m.status.setState(StateWaiting)
		slog.Info("Waiting before next capture...", "delay", m.delay)
		if !m.wait(ctx) {
			break
		}
	}

	slog.Info("Program interrupted by user. Exiting...")
	return nil
}

func (m *Monitor) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-m.after(m.delay):
		return true
	}
}

func (m *Monitor) iterate(ctx context.Context) Outcome {
	captureID := uuid.NewString()
	log := slog.With("capture_id", captureID)

	m.status.setState(StateCapturing)
	log.Info("Capturing screen...")
	screenshot, err := m.capturer.Capture(ctx, m.screenshotPath)
	if ctx.Err() != nil {
		return OutcomeInterrupted
	}
	if err != nil {
		log.Error("Screen capture failed", "error", err)
		m.status.update(func(c *apimodels.Counters) { c.CaptureFailures++ })
		return OutcomeCaptureFailed
	}
	if info, err := os.Stat(screenshot); err == nil {
		log.Debug("Screen captured", "path", screenshot, "size", humanize.Bytes(uint64(info.Size())))
	}

	m.status.setState(StateExtracting)
	log.Info("Extracting text from screenshot...")
	text, err := m.extractor.Extract(ctx, screenshot)
	if ctx.Err() != nil {
		return OutcomeInterrupted
	}
	if err != nil {
		m.status.update(func(c *apimodels.Counters) { c.ExtractionSkipped++ })
		if errors.Is(err, ocr.ErrNoText) {
			log.Warn("No text detected. Skipping AI query.")
			return OutcomeNoText
		}
		log.Error("OCR error", "error", err)
		return OutcomeExtractFailed
	}
	log.Info("Extracted text", "text", text)

	m.status.setState(StateQuerying)
	log.Info("Querying AI ...")
	response := m.querier.Query(ctx, text)
	m.status.update(func(c *apimodels.Counters) { c.Queries++ })
	if ctx.Err() != nil {
		return OutcomeInterrupted
	}
	log.Info("AI response", "response", response)

	m.status.setState(StateLogging)
	entry, err := m.recorder.Append(text, response)
	if err != nil {
		log.Error("Failed to log data", "error", err)
		m.status.update(func(c *apimodels.Counters) { c.LogWriteFailures++ })
		return OutcomeLogFailed
	}
	m.status.recorded(captureID, entry)
	return OutcomeLogged
}
