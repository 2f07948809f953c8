package dictionary

import (
	"fmt"

	"go.uber.org/zap"
)

// Manager runs extraction, classification and writing for each model reply
// and keeps the required-file ledger.
type Manager struct {
	extractor  Extractor
	classifier Classifier
	writer     Writer
	ledger     *Ledger
	logger     *zap.Logger
}

// NewManager wires a Manager. logger may be nil.
func NewManager(extractor Extractor, classifier Classifier, writer Writer, requirements []Requirement, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		extractor:  extractor,
		classifier: classifier,
		writer:     writer,
		ledger:     NewLedger(requirements),
		logger:     logger,
	}
}

// ProcessReply writes every dictionary found in text. The ledger is updated
// after each successful write, so when a write fails the error is returned
// immediately and earlier writes from the same reply stay recorded.
func (m *Manager) ProcessReply(text string) error {
	blocks := m.extractor.Extract(text)
	m.logger.Debug("extracted dictionaries", zap.Int("count", len(blocks)))

	for _, block := range blocks {
		if err := m.Store(block.Name, block.Content); err != nil {
			return err
		}
	}
	return nil
}

// Store writes one dictionary that did not come from a model reply, such as
// a rendered template, and records it in the ledger.
func (m *Manager) Store(name, content string) error {
	category := m.classifier.Classify(name)
	if err := m.writer.Write(name, content, category); err != nil {
		m.logger.Error("dictionary write failed",
			zap.String("name", name),
			zap.String("category", string(category)),
			zap.Error(err))
		return fmt.Errorf("writing %s: %w", name, err)
	}
	m.ledger.Record(name)
	m.logger.Info("dictionary written",
		zap.String("name", name),
		zap.String("category", string(category)),
		zap.Bool("required", m.ledger.Tracks(name)))
	return nil
}

// MissingRequired lists the labels of required files not yet written.
// A disjunctive group appears once, and only while none of its members exist.
func (m *Manager) MissingRequired() []string {
	return m.ledger.Missing()
}

// Complete reports whether every required file has been written.
func (m *Manager) Complete() bool {
	return m.ledger.Complete()
}

// Progress reports met and total requirement counts.
func (m *Manager) Progress() (met, total int) {
	return m.ledger.Progress()
}

// Written returns every dictionary name written this session.
func (m *Manager) Written() []string {
	return m.ledger.Written()
}
