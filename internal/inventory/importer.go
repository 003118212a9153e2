package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"itam-backend/internal/apperr"
	"itam-backend/internal/metrics"
	"itam-backend/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// ImportColumns is the spreadsheet contract: header text (case and spacing
// insensitive) to asset field. Unlisted columns are ignored.
var ImportColumns = map[string]func(*AssetInput, string) error{
	"barcode":          func(in *AssetInput, v string) error { in.Barcode = v; return nil },
	"school id":        setSchoolID,
	"city code":        func(in *AssetInput, v string) error { in.CityCode = padCode(v, 2); return nil },
	"type code":        func(in *AssetInput, v string) error { in.TypeCode = strings.ToUpper(v); return nil },
	"category code":    func(in *AssetInput, v string) error { in.CategoryCode = strings.ToUpper(v); return nil },
	"subcategory code": func(in *AssetInput, v string) error { in.SubcategoryCode = strings.ToUpper(v); return nil },
	"month":            func(in *AssetInput, v string) error { in.ProcurementMonth = padCode(v, 2); return nil },
	"year":             func(in *AssetInput, v string) error { in.ProcurementYear = padCode(v, 2); return nil },
	"floor":            func(in *AssetInput, v string) error { in.Floor = v; return nil },
	"sequence":         func(in *AssetInput, v string) error { in.SequenceNumber = padCode(v, 3); return nil },
	"placement":        func(in *AssetInput, v string) error { in.Placement = models.Placement(v); return nil },
	"brand":            func(in *AssetInput, v string) error { in.Brand = v; return nil },
	"room":             func(in *AssetInput, v string) error { in.Room = v; return nil },
	"model":            func(in *AssetInput, v string) error { in.ModelSeries = v; return nil },
	"serial number":    func(in *AssetInput, v string) error { in.SerialNumber = v; return nil },
	"ip address":       func(in *AssetInput, v string) error { in.IPAddress = &v; return nil },
	"mac address":      func(in *AssetInput, v string) error { in.MACAddress = &v; return nil },
	"ram":              func(in *AssetInput, v string) error { in.RAM = v; return nil },
	"processor":        func(in *AssetInput, v string) error { in.Processor = v; return nil },
	"gpu":              func(in *AssetInput, v string) error { in.GPU = v; return nil },
	"storage":          func(in *AssetInput, v string) error { in.Storage = v; return nil },
	"os":               func(in *AssetInput, v string) error { in.OS = v; return nil },
	"connect to":       func(in *AssetInput, v string) error { in.ConnectTo = v; return nil },
	"channel":          func(in *AssetInput, v string) error { in.Channel = v; return nil },
	"username":         func(in *AssetInput, v string) error { in.Username = v; return nil },
	"password":         func(in *AssetInput, v string) error { in.Password = v; return nil },
	"assigned to":      func(in *AssetInput, v string) error { in.AssignedTo = v; return nil },
	"status":           func(in *AssetInput, v string) error { in.Status = models.AssetStatus(v); return nil },
}

var headerAliases = map[string]string{
	"sequence number":   "sequence",
	"model series":      "model",
	"procurement month": "month",
	"procurement year":  "year",
}

var requiredColumns = []string{"barcode", "school id"}

type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	Errors       []string `json:"errors"`
}

type Importer struct {
	assets *AssetStore
}

func NewImporter(assets *AssetStore) *Importer {
	return &Importer{assets: assets}
}

// Import creates one asset per data row, each in its own transaction.
// A failing row is reported as "Row N: reason" with N the spreadsheet line
// number (header is line 1) and never stops the rest of the batch. Only an
// unreadable file fails the call as a whole.
func (im *Importer) Import(ctx context.Context, actor Actor, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "cannot read spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.New(apperr.InvalidInput, "spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Wrap(apperr.InvalidInput, "cannot read spreadsheet rows", err)
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.InvalidInput, "spreadsheet is empty")
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Errors: []string{}}
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		line := i + 2

		in, err := rowInput(columns, row)
		if err == nil {
			_, err = im.assets.create(ctx, actor, in, models.ActionImport, detailsImport)
		}
		metrics.RecordImportRow(err == nil)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", line, rowReason(err)))
			continue
		}
		res.SuccessCount++
	}

	log.Ctx(ctx).Info().
		Int("success", res.SuccessCount).
		Int("failed", len(res.Errors)).
		Str("actor", actor.Name).
		Msg("asset import finished")
	return res, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.ReplaceAll(h, "_", " "))
	h = strings.Join(strings.Fields(h), " ")
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

// mapHeader returns, per column index, the key into ImportColumns ("" if ignored).
func mapHeader(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		key := normalizeHeader(h)
		if _, ok := ImportColumns[key]; ok {
			columns[i] = key
			seen[key] = true
		}
	}
	for _, req := range requiredColumns {
		if !seen[req] {
			return nil, apperr.Newf(apperr.InvalidInput, "missing required column %q", req)
		}
	}
	return columns, nil
}

func rowInput(columns []string, row []string) (AssetInput, error) {
	var in AssetInput
	for i, cell := range row {
		if i >= len(columns) || columns[i] == "" {
			continue
		}
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		if err := ImportColumns[columns[i]](&in, v); err != nil {
			return in, err
		}
	}
	return in, nil
}

func setSchoolID(in *AssetInput, v string) error {
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return apperr.Newf(apperr.InvalidInput, "school_id: %q is not a valid id", v)
	}
	in.SchoolID = uint(id)
	return nil
}

// padCode left-pads numeric codes with zeros to width and keeps only the
// trailing width digits of longer numbers, so 3 -> "03" and 2024 -> "24".
func padCode(v string, width int) string {
	v = strings.TrimSpace(v)
	if _, err := strconv.Atoi(v); err != nil {
		return v
	}
	if len(v) > width {
		return v[len(v)-width:]
	}
	return strings.Repeat("0", width-len(v)) + v
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowReason(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.Internal {
		return ae.Msg
	}
	return err.Error()
}
