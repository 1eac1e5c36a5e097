package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"whatsapp-reactions/models"
)

// ErrMalformed wraps every reason a document is rejected.
var ErrMalformed = errors.New("corpus malformato")

// Decode reads a corpus document. The whole document is rejected when its
// shape is wrong; missing optional fields are fine.
func Decode(r io.Reader) (*models.Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("errore nella lettura del corpus: %w", err)
	}
	return Parse(data)
}

// Parse is Decode for an in-memory document.
func Parse(data []byte) (*models.Corpus, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: il documento deve essere un oggetto JSON", ErrMalformed)
	}

	doc := models.NewCorpus()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks the values JSON typing cannot: ids, entries and counts.
func Validate(doc *models.Corpus) error {
	var err error
	doc.Range(func(id string, rec *models.MessageRecord) bool {
		switch {
		case id == "":
			err = fmt.Errorf("%w: id messaggio vuoto", ErrMalformed)
		case rec == nil:
			err = fmt.Errorf("%w: messaggio %s non è un oggetto", ErrMalformed, id)
		case rec.Timestamp < 0:
			err = fmt.Errorf("%w: messaggio %s: timestamp negativo", ErrMalformed, id)
		case rec.MessageLength < 0:
			err = fmt.Errorf("%w: messaggio %s: messageLength negativo", ErrMalformed, id)
		default:
			err = validateReactions(id, rec.Reactions)
		}
		return err == nil
	})
	return err
}

func validateReactions(id string, reactions *models.Reactions) error {
	var err error
	reactions.Range(func(emoji string, reactors *models.ReactorCounts) bool {
		if reactors == nil {
			err = fmt.Errorf("%w: messaggio %s: reazione %q non è un oggetto", ErrMalformed, id, emoji)
			return false
		}
		reactors.Range(func(reactor string, count int) bool {
			if count < 0 {
				err = fmt.Errorf("%w: messaggio %s: conteggio negativo per %s", ErrMalformed, id, reactor)
			}
			return err == nil
		})
		return err == nil
	})
	return err
}

// Encode writes the corpus as indented JSON in store order.
func Encode(w io.Writer, doc *models.Corpus) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("errore nella codifica del corpus: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Filename is the download name for an export made at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("whatsapp-corpus-%s.json", now.Format("2006-01-02"))
}
