// Package export renders the stored recipient list as JSON or CSV and writes
// it to a blob store under exports/.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"sembako/internal/blob"
	"sembako/pkg/domain"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Prefix is the key prefix every export is written under.
const Prefix = "exports/"

const timestampLayout = "20060102T150405Z"

// Columns is the CSV header row.
var Columns = []string{"id", "name", "address", "family_size", "ration_quantity", "added_date"}

// ErrUnsupportedFormat is returned for formats other than json and csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts json or csv, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) contentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Lister is the store capability an export needs.
type Lister interface {
	List(ctx context.Context) ([]domain.Recipient, error)
}

// Exporter writes recipient exports to a blob store.
type Exporter struct {
	source Lister
	store  blob.Store
	now    func() time.Time
	newID  func() string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides the clock used for export keys.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// NewExporter returns an exporter reading from source and writing to store.
func NewExporter(source Lister, store blob.Store, opts ...Option) *Exporter {
	e := &Exporter{
		source: source,
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Record is one exported row.
type Record struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	FamilySize     int       `json:"family_size"`
	RationQuantity int       `json:"ration_quantity"`
	AddedDate      time.Time `json:"added_date,omitzero"`
	Category       string    `json:"category,omitempty"`
}

func recordOf(r domain.Recipient) Record {
	return Record{
		ID:             r.ID,
		Name:           r.Name,
		Address:        r.Address,
		FamilySize:     r.FamilySize,
		RationQuantity: r.RationQuantity(),
		AddedDate:      r.AddedDate,
		Category:       r.Category,
	}
}

// Recipient converts the row back into a domain recipient; a category yields
// the special variant.
func (r Record) Recipient() domain.Recipient {
	var out domain.Recipient
	if r.Category != "" {
		out = domain.NewSpecialRecipient(r.Name, r.Address, r.FamilySize, r.Category)
	} else {
		out = domain.NewRecipient(r.Name, r.Address, r.FamilySize)
	}
	out.ID = r.ID
	out.AddedDate = r.AddedDate
	return out
}

// Export renders every stored recipient in format and stores the result. The
// returned Info carries the generated key.
func (e *Exporter) Export(ctx context.Context, format Format) (blob.Info, error) {
	recipients, err := e.source.List(ctx)
	if err != nil {
		return blob.Info{}, domain.WrapStorage("list", err)
	}
	records := make([]Record, 0, len(recipients))
	for _, r := range recipients {
		records = append(records, recordOf(r))
	}

	var payload []byte
	switch format {
	case FormatJSON:
		payload, err = json.MarshalIndent(records, "", "  ")
	case FormatCSV:
		payload, err = encodeCSV(records)
	default:
		return blob.Info{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode %s: %w", format, err)
	}

	key := fmt.Sprintf("%srecipients-%s-%s.%s", Prefix, e.now().UTC().Format(timestampLayout), e.newID(), format)
	info, err := e.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: format.contentType(),
		Metadata:    map[string]string{"records": strconv.Itoa(len(records)), "format": string(format)},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store export: %w", err)
	}
	return info, nil
}

// List returns the stored exports ordered by key, which is chronological.
func (e *Exporter) List(ctx context.Context) ([]blob.Info, error) {
	infos, err := e.store.List(ctx, Prefix)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	return infos, nil
}

// Load reads a JSON export back into recipients.
func (e *Exporter) Load(ctx context.Context, key string) ([]domain.Recipient, error) {
	if !strings.HasSuffix(key, "."+string(FormatJSON)) {
		return nil, fmt.Errorf("%w: only json exports can be loaded", ErrUnsupportedFormat)
	}
	_, rc, err := e.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	defer func() { _ = rc.Close() }()
	return decodeJSON(rc)
}

func decodeJSON(r io.Reader) ([]domain.Recipient, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	out := make([]domain.Recipient, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Recipient())
	}
	return out, nil
}

func encodeCSV(records []Record) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, r := range records {
		added := ""
		if !r.AddedDate.IsZero() {
			added = r.AddedDate.UTC().Format(time.RFC3339)
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Address,
			strconv.Itoa(r.FamilySize),
			strconv.Itoa(r.RationQuantity),
			added,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
