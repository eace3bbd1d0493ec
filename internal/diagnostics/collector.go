package diagnostics

import (
	"io"
	"log"
)

type Collector struct {
	Diags []*Diag

	logger *log.Logger
}

func New() *Collector {
	return &Collector{
		Diags:  nil,
		logger: log.New(io.Discard, "", 0),
	}
}

// NewWithLogger echoes every saved diagnostic to logger.
func NewWithLogger(logger *log.Logger) *Collector {
	collector := New()
	if logger != nil {
		collector.logger = logger
	}
	return collector
}

// ReportAndSave records diag and hands it back as an error, so call sites can
// write `return nil, c.ReportAndSave(diag)`.
func (collector *Collector) ReportAndSave(diag *Diag) error {
	collector.logger.Println(diag.Error())
	collector.Diags = append(collector.Diags, diag)
	return diag
}

func (collector *Collector) HasErrors() bool {
	return len(collector.Diags) > 0
}

func (collector *Collector) Last() *Diag {
	if len(collector.Diags) == 0 {
		return nil
	}
	return collector.Diags[len(collector.Diags)-1]
}
