package analytics

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/dop251/goja"

	"whatsapp-reactions/serialize"
)

const metricTimeout = 2 * time.Second

// MetricSet holds user-defined JavaScript expressions evaluated against the
// stats document, bound in the script as `stats`.
type MetricSet struct {
	names   []string
	scripts map[string]*goja.Program
	timeout time.Duration
}

// NewMetricSet compiles every expression up front; a syntax error in any of
// them fails the whole set.
func NewMetricSet(exprs map[string]string) (*MetricSet, error) {
	m := &MetricSet{scripts: make(map[string]*goja.Program, len(exprs)), timeout: metricTimeout}
	for name, expr := range exprs {
		prg, err := goja.Compile(name, "("+expr+"\n)", true)
		if err != nil {
			return nil, fmt.Errorf("errore nella compilazione della metrica %s: %w", name, err)
		}
		m.scripts[name] = prg
		m.names = append(m.names, name)
	}
	sort.Strings(m.names)
	return m, nil
}

func (m *MetricSet) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Evaluate runs every metric on a fresh VM. A failing metric reports
// {"error": msg} without affecting the others.
func (m *MetricSet) Evaluate(doc serialize.Document) map[string]interface{} {
	out := make(map[string]interface{}, m.Len())
	if m.Len() == 0 {
		return out
	}

	// Il documento passa da JSON così lo script vede solo tipi JS puri
	data, err := json.Marshal(doc)
	if err != nil {
		for _, name := range m.names {
			out[name] = map[string]interface{}{"error": err.Error()}
		}
		return out
	}

	for _, name := range m.names {
		value, err := m.run(m.scripts[name], string(data))
		if err != nil {
			log.Printf("❌ Errore nella metrica %s: %v", name, err)
			out[name] = map[string]interface{}{"error": err.Error()}
			continue
		}
		out[name] = value
	}
	return out
}

func (m *MetricSet) run(prg *goja.Program, statsJSON string) (interface{}, error) {
	vm := goja.New()
	timer := time.AfterFunc(m.timeout, func() {
		vm.Interrupt("timeout")
	})
	defer timer.Stop()

	vm.Set("statsJSON", statsJSON)
	if _, err := vm.RunString("var stats = JSON.parse(statsJSON);"); err != nil {
		return nil, fmt.Errorf("errore nell'esecuzione del JavaScript: %w", err)
	}

	result, err := vm.RunProgram(prg)
	if err != nil {
		return nil, fmt.Errorf("errore nell'esecuzione del JavaScript: %w", err)
	}
	if goja.IsUndefined(result) || goja.IsNull(result) {
		return nil, nil
	}
	return result.Export(), nil
}
