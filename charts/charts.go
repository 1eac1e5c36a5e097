package charts

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fogleman/gg"

	"whatsapp-reactions/stats"
)

const (
	Width  = 960
	Height = 360

	margin    = 40.0
	barGap    = 6.0
	legendTop = 16.0
)

// HourlyActivityPNG disegna i 24 bucket orari: barre per i messaggi,
// linea per le reazioni, entrambe sulla stessa scala.
func HourlyActivityPNG(w io.Writer, ta stats.TemporalAnalysis) error {
	dc := gg.NewContext(Width, Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	peak := 1
	for _, b := range ta.HourlyActivity {
		peak = max(peak, b.Messages, b.Reactions)
	}

	plotW := float64(Width) - 2*margin
	plotH := float64(Height) - 2*margin
	slot := plotW / float64(len(ta.HourlyActivity))
	baseline := float64(Height) - margin
	y := func(v int) float64 { return baseline - float64(v)/float64(peak)*plotH }

	// assi
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1)
	dc.DrawLine(margin, baseline, float64(Width)-margin, baseline)
	dc.DrawLine(margin, margin, margin, baseline)
	dc.Stroke()

	// messaggi
	dc.SetRGB255(37, 211, 102)
	for h, b := range ta.HourlyActivity {
		if b.Messages == 0 {
			continue
		}
		x := margin + float64(h)*slot + barGap/2
		dc.DrawRectangle(x, y(b.Messages), slot-barGap, baseline-y(b.Messages))
		dc.Fill()
	}

	// reazioni
	dc.SetRGB255(255, 149, 0)
	dc.SetLineWidth(2)
	for h, b := range ta.HourlyActivity {
		dc.LineTo(margin+(float64(h)+0.5)*slot, y(b.Reactions))
	}
	dc.Stroke()

	dc.SetRGB(0.2, 0.2, 0.2)
	for h := range ta.HourlyActivity {
		if h%3 == 0 {
			dc.DrawStringAnchored(strconv.Itoa(h), margin+(float64(h)+0.5)*slot, baseline+14, 0.5, 0.5)
		}
	}
	dc.DrawStringAnchored(strconv.Itoa(peak), margin-6, margin, 1, 0.5)
	dc.DrawStringAnchored("messaggi (barre) / reazioni (linea) per ora", float64(Width)/2, legendTop, 0.5, 0.5)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("errore nella codifica del grafico: %w", err)
	}
	return nil
}
