package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"itam-backend/internal/apperr"
	"itam-backend/internal/database"
	"itam-backend/internal/models"

	"gorm.io/gorm"
)

const serviceDateLayout = "2006-01-02"

var serviceSort = sortSpec{
	columns: map[string]string{
		"service_date": "service_date",
		"ticket_no":    "ticket_no",
		"status":       "status",
		"vendor":       "vendor",
		"created_at":   "created_at",
	},
	fallback: "service_date",
}

type ServiceStore struct {
	db   *gorm.DB
	opts options
}

func NewServiceStore(db *gorm.DB, opts ...Option) *ServiceStore {
	return &ServiceStore{db: db, opts: buildOptions(opts)}
}

type ServiceFilter struct {
	Search string
	PageRequest
}

type ServiceInput struct {
	TicketNo         string `json:"ticket_no"`
	ServiceDate      string `json:"service_date"`
	AssetName        string `json:"asset_name"`
	SNOrBarcode      string `json:"sn_or_barcode"`
	UnitName         string `json:"unit_name"`
	Owner            string `json:"owner"`
	ProductionYear   string `json:"production_year"`
	IssueDescription string `json:"issue_description"`
	Vendor           string `json:"vendor"`
	Status           string `json:"status"`
}

type ServicePatch struct {
	TicketNo         *string `json:"ticket_no"`
	ServiceDate      *string `json:"service_date"`
	AssetName        *string `json:"asset_name"`
	SNOrBarcode      *string `json:"sn_or_barcode"`
	UnitName         *string `json:"unit_name"`
	Owner            *string `json:"owner"`
	ProductionYear   *string `json:"production_year"`
	IssueDescription *string `json:"issue_description"`
	Vendor           *string `json:"vendor"`
	Status           *string `json:"status"`
}

func parseServiceDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(serviceDateLayout, v)
	if err != nil {
		return nil, apperr.Newf(apperr.InvalidInput, "service_date: %q is not a YYYY-MM-DD date", v)
	}
	return &d, nil
}

func (s *ServiceStore) List(ctx context.Context, f ServiceFilter) (Page[models.ServiceHistory], error) {
	p := f.PageRequest.normalized()

	filter := func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(f.Search) != "" {
			clause, args := searchClause(f.Search, "ticket_no", "sn_or_barcode")
			db = db.Where(clause, args...)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.ServiceHistory{}).Scopes(filter).Count(&total).Error; err != nil {
		return Page[models.ServiceHistory]{}, fmt.Errorf("count services: %w", err)
	}

	items := make([]models.ServiceHistory, 0, p.Size)
	err := s.db.WithContext(ctx).
		Scopes(filter).
		Order(serviceSort.order(p.SortBy, p.SortOrder)).
		Offset(p.offset()).
		Limit(p.Size).
		Find(&items).Error
	if err != nil {
		return Page[models.ServiceHistory]{}, fmt.Errorf("list services: %w", err)
	}
	return Page[models.ServiceHistory]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *ServiceStore) Get(ctx context.Context, id uint) (*models.ServiceHistory, error) {
	var sh models.ServiceHistory
	if err := s.db.WithContext(ctx).First(&sh, id).Error; err != nil {
		return nil, notFound(err, "service ticket")
	}
	return &sh, nil
}

func (s *ServiceStore) Create(ctx context.Context, actor Actor, in ServiceInput) (*models.ServiceHistory, error) {
	date, err := parseServiceDate(in.ServiceDate)
	if err != nil {
		return nil, err
	}
	sh := models.ServiceHistory{
		TicketNo:         strings.TrimSpace(in.TicketNo),
		ServiceDate:      date,
		AssetName:        strings.TrimSpace(in.AssetName),
		SNOrBarcode:      strings.TrimSpace(in.SNOrBarcode),
		UnitName:         in.UnitName,
		Owner:            in.Owner,
		ProductionYear:   strings.TrimSpace(in.ProductionYear),
		IssueDescription: strings.TrimSpace(in.IssueDescription),
		Vendor:           strings.TrimSpace(in.Vendor),
		Status:           strings.TrimSpace(in.Status),
	}
	if sh.Vendor == "" {
		sh.Vendor = models.DefaultServiceVendor
	}
	if sh.Status == "" {
		sh.Status = models.DefaultServiceStatus
	}
	if err := check(&sh); err != nil {
		return nil, err
	}

	var entry models.UpdateLog
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		asset := ResolveAsset(tx, sh.SNOrBarcode)
		if sh.AssetName == "" && asset != nil {
			sh.AssetName = asset.Label()
		}
		if err := tx.Create(&sh).Error; err != nil {
			return translate("insert service ticket", err)
		}
		entry = serviceLogEntry(tx, actor, sh, asset, models.ActionServiceCreate)
		return database.AppendUpdateLog(tx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.opts.committed(ctx, entry)
	return &sh, nil
}

func (s *ServiceStore) Update(ctx context.Context, actor Actor, id uint, p ServicePatch) (*models.ServiceHistory, error) {
	var date *time.Time
	if p.ServiceDate != nil {
		d, err := parseServiceDate(*p.ServiceDate)
		if err != nil {
			return nil, err
		}
		date = d
	}

	var (
		sh    models.ServiceHistory
		entry models.UpdateLog
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sh, id).Error; err != nil {
			return notFound(err, "service ticket")
		}

		changes := map[string]any{}
		set(&sh.TicketNo, p.TicketNo, "ticket_no", changes)
		set(&sh.AssetName, p.AssetName, "asset_name", changes)
		set(&sh.SNOrBarcode, p.SNOrBarcode, "sn_or_barcode", changes)
		set(&sh.UnitName, p.UnitName, "unit_name", changes)
		set(&sh.Owner, p.Owner, "owner", changes)
		set(&sh.ProductionYear, p.ProductionYear, "production_year", changes)
		set(&sh.IssueDescription, p.IssueDescription, "issue_description", changes)
		set(&sh.Vendor, p.Vendor, "vendor", changes)
		set(&sh.Status, p.Status, "status", changes)
		if p.ServiceDate != nil && !sameDate(sh.ServiceDate, date) {
			changes["service_date"] = map[string]any{"old": formatDate(sh.ServiceDate), "new": formatDate(date)}
			sh.ServiceDate = date
		}

		if err := check(&sh); err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Save(&sh).Error; err != nil {
				return translate("update service ticket", err)
			}
		}

		asset := ResolveAsset(tx, sh.SNOrBarcode)
		entry = serviceLogEntry(tx, actor, sh, asset, models.ActionServiceUpdate)
		if len(changes) > 0 {
			entry.Changes = changes
		}
		return database.AppendUpdateLog(tx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.opts.committed(ctx, entry)
	return &sh, nil
}

// ResolveAsset finds the asset a service ticket refers to, trying the barcode
// first and the serial number second. Serial numbers are not unique, so the
// oldest match wins. Returns nil when nothing matches.
func ResolveAsset(tx *gorm.DB, ref string) *models.Asset {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	for _, column := range []string{"barcode", "serial_number"} {
		var a models.Asset
		if err := tx.Where(column+" = ?", ref).Order("id").Limit(1).Find(&a).Error; err == nil && a.ID != 0 {
			return &a
		}
	}
	return nil
}

func serviceLogEntry(tx *gorm.DB, actor Actor, sh models.ServiceHistory, asset *models.Asset, action string) models.UpdateLog {
	entry := models.UpdateLog{
		AssetBarcode: sh.SNOrBarcode,
		AssetName:    sh.AssetName,
		Action:       action,
		Details:      fmt.Sprintf("Tiket servis %s: %s (%s)", ticketLabel(sh.TicketNo), sh.IssueDescription, sh.Status),
		Actor:        actor.Name,
		SchoolName:   models.UnknownSchool,
		AreaName:     models.UnknownArea,
	}
	if asset != nil {
		entry.AssetBarcode = asset.Barcode
		entry.SchoolName, entry.AreaName = database.LocationNames(tx, asset.SchoolID)
	}
	return entry
}

func ticketLabel(no string) string {
	if no == "" {
		return "-"
	}
	return no
}

func sameDate(a, b *time.Time) bool {
	return formatDate(a) == formatDate(b)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(serviceDateLayout)
}
