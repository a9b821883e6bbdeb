package driver

import (
	"encoding/json"
	"fmt"

	"valc/internal/diag"
	"valc/internal/observ"
	"valc/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Name    string               `json:"name,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic attaches payload to bag as an info diagnostic
// whose note is the JSON report. A full bag is grown to fit it.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "program"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Name != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Name)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.LowerInfo, source.Span{}, msg).WithNote(source.Span{}, string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(len(bag.Items()) + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
