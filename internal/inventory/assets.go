package inventory

import (
	"context"
	"fmt"
	"strings"

	"itam-backend/internal/apperr"
	"itam-backend/internal/database"
	"itam-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	detailsCreate = "Menambahkan aset baru ke database"
	detailsUpdate = "Memperbarui data aset"
	detailsDelete = "Menghapus aset dari database"
	detailsImport = "Impor aset dari spreadsheet"
)

var assetSort = sortSpec{
	columns: map[string]string{
		"barcode":       "barcode",
		"brand":         "brand",
		"model_series":  "model_series",
		"serial_number": "serial_number",
		"status":        "status",
		"created_at":    "created_at",
		"updated_at":    "updated_at",
	},
	fallback: "created_at",
}

type AssetStore struct {
	db   *gorm.DB
	opts options
}

func NewAssetStore(db *gorm.DB, opts ...Option) *AssetStore {
	return &AssetStore{db: db, opts: buildOptions(opts)}
}

type AssetFilter struct {
	SchoolID     uint
	TypeCode     string
	CategoryCode string
	Search       string
	PageRequest
}

// AssetInput is a full asset as submitted for creation.
type AssetInput struct {
	Barcode          string             `json:"barcode"`
	SchoolID         uint               `json:"school_id"`
	CityCode         string             `json:"city_code"`
	TypeCode         string             `json:"type_code"`
	CategoryCode     string             `json:"category_code"`
	SubcategoryCode  string             `json:"subcategory_code"`
	ProcurementMonth string             `json:"procurement_month"`
	ProcurementYear  string             `json:"procurement_year"`
	Floor            string             `json:"floor"`
	SequenceNumber   string             `json:"sequence_number"`
	Placement        models.Placement   `json:"placement"`
	Brand            string             `json:"brand"`
	Room             string             `json:"room"`
	ModelSeries      string             `json:"model_series"`
	IPAddress        *string            `json:"ip_address"`
	MACAddress       *string            `json:"mac_address"`
	SerialNumber     string             `json:"serial_number"`
	RAM              string             `json:"ram"`
	Processor        string             `json:"processor"`
	GPU              string             `json:"gpu"`
	Storage          string             `json:"storage"`
	OS               string             `json:"os"`
	ConnectTo        string             `json:"connect_to"`
	Channel          string             `json:"channel"`
	Username         string             `json:"username"`
	Password         string             `json:"password"`
	AssignedTo       string             `json:"assigned_to"`
	Status           models.AssetStatus `json:"status"`
}

func (in AssetInput) model() models.Asset {
	a := models.Asset{
		Barcode:          strings.TrimSpace(in.Barcode),
		SchoolID:         in.SchoolID,
		CityCode:         strings.TrimSpace(in.CityCode),
		TypeCode:         strings.TrimSpace(in.TypeCode),
		CategoryCode:     strings.TrimSpace(in.CategoryCode),
		SubcategoryCode:  strings.TrimSpace(in.SubcategoryCode),
		ProcurementMonth: strings.TrimSpace(in.ProcurementMonth),
		ProcurementYear:  strings.TrimSpace(in.ProcurementYear),
		Floor:            strings.TrimSpace(in.Floor),
		SequenceNumber:   strings.TrimSpace(in.SequenceNumber),
		Placement:        in.Placement,
		Brand:            in.Brand,
		Room:             in.Room,
		ModelSeries:      in.ModelSeries,
		IPAddress:        optional(in.IPAddress),
		MACAddress:       optional(in.MACAddress),
		SerialNumber:     strings.TrimSpace(in.SerialNumber),
		RAM:              in.RAM,
		Processor:        in.Processor,
		GPU:              in.GPU,
		Storage:          in.Storage,
		OS:               in.OS,
		ConnectTo:        in.ConnectTo,
		Channel:          in.Channel,
		Username:         in.Username,
		Password:         in.Password,
		AssignedTo:       in.AssignedTo,
		Status:           in.Status,
	}
	if a.IPAddress != nil {
		ip := NormalizeIP(*a.IPAddress)
		a.IPAddress = &ip
	}
	if a.MACAddress != nil {
		mac := NormalizeMAC(*a.MACAddress)
		a.MACAddress = &mac
	}
	if a.Status == "" {
		a.Status = models.StatusWorking
	}
	return a
}

// AssetPatch carries only the fields the caller sent. Barcode cannot change.
// An empty IP or MAC clears the stored value.
type AssetPatch struct {
	SchoolID         *uint               `json:"school_id"`
	CityCode         *string             `json:"city_code"`
	TypeCode         *string             `json:"type_code"`
	CategoryCode     *string             `json:"category_code"`
	SubcategoryCode  *string             `json:"subcategory_code"`
	ProcurementMonth *string             `json:"procurement_month"`
	ProcurementYear  *string             `json:"procurement_year"`
	Floor            *string             `json:"floor"`
	SequenceNumber   *string             `json:"sequence_number"`
	Placement        *models.Placement   `json:"placement"`
	Brand            *string             `json:"brand"`
	Room             *string             `json:"room"`
	ModelSeries      *string             `json:"model_series"`
	IPAddress        *string             `json:"ip_address"`
	MACAddress       *string             `json:"mac_address"`
	SerialNumber     *string             `json:"serial_number"`
	RAM              *string             `json:"ram"`
	Processor        *string             `json:"processor"`
	GPU              *string             `json:"gpu"`
	Storage          *string             `json:"storage"`
	OS               *string             `json:"os"`
	ConnectTo        *string             `json:"connect_to"`
	Channel          *string             `json:"channel"`
	Username         *string             `json:"username"`
	Password         *string             `json:"password"`
	AssignedTo       *string             `json:"assigned_to"`
	Status           *models.AssetStatus `json:"status"`
}

// apply merges p into a and returns the changed fields as {field: {old, new}}.
func (p AssetPatch) apply(a *models.Asset) map[string]any {
	ch := map[string]any{}
	set(&a.SchoolID, p.SchoolID, "school_id", ch)
	set(&a.CityCode, p.CityCode, "city_code", ch)
	set(&a.TypeCode, p.TypeCode, "type_code", ch)
	set(&a.CategoryCode, p.CategoryCode, "category_code", ch)
	set(&a.SubcategoryCode, p.SubcategoryCode, "subcategory_code", ch)
	set(&a.ProcurementMonth, p.ProcurementMonth, "procurement_month", ch)
	set(&a.ProcurementYear, p.ProcurementYear, "procurement_year", ch)
	set(&a.Floor, p.Floor, "floor", ch)
	set(&a.SequenceNumber, p.SequenceNumber, "sequence_number", ch)
	set(&a.Placement, p.Placement, "placement", ch)
	set(&a.Brand, p.Brand, "brand", ch)
	set(&a.Room, p.Room, "room", ch)
	set(&a.ModelSeries, p.ModelSeries, "model_series", ch)
	set(&a.SerialNumber, p.SerialNumber, "serial_number", ch)
	set(&a.RAM, p.RAM, "ram", ch)
	set(&a.Processor, p.Processor, "processor", ch)
	set(&a.GPU, p.GPU, "gpu", ch)
	set(&a.Storage, p.Storage, "storage", ch)
	set(&a.OS, p.OS, "os", ch)
	set(&a.ConnectTo, p.ConnectTo, "connect_to", ch)
	set(&a.Channel, p.Channel, "channel", ch)
	set(&a.Username, p.Username, "username", ch)
	set(&a.Password, p.Password, "password", ch)
	set(&a.AssignedTo, p.AssignedTo, "assigned_to", ch)
	set(&a.Status, p.Status, "status", ch)
	setOptional(&a.IPAddress, p.IPAddress, NormalizeIP, "ip_address", ch)
	setOptional(&a.MACAddress, p.MACAddress, NormalizeMAC, "mac_address", ch)
	return ch
}

func set[T comparable](dst *T, src *T, name string, changes map[string]any) {
	if src == nil || *dst == *src {
		return
	}
	changes[name] = map[string]any{"old": *dst, "new": *src}
	*dst = *src
}

func setOptional(dst **string, src *string, norm func(string) string, name string, changes map[string]any) {
	if src == nil {
		return
	}
	var next *string
	if v := norm(*src); v != "" {
		next = &v
	}
	if deref(*dst) == deref(next) {
		return
	}
	changes[name] = map[string]any{"old": deref(*dst), "new": deref(next)}
	*dst = next
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *AssetStore) List(ctx context.Context, f AssetFilter) (Page[models.Asset], error) {
	p := f.PageRequest.normalized()

	if f.SchoolID != 0 {
		if err := ensureSchool(s.db.WithContext(ctx), f.SchoolID, apperr.NotFound); err != nil {
			return Page[models.Asset]{}, err
		}
	}

	filter := func(db *gorm.DB) *gorm.DB {
		if f.SchoolID != 0 {
			db = db.Where("school_id = ?", f.SchoolID)
		}
		if f.TypeCode != "" {
			db = db.Where("type_code = ?", f.TypeCode)
		}
		if f.CategoryCode != "" {
			db = db.Where("category_code = ?", f.CategoryCode)
		}
		if strings.TrimSpace(f.Search) != "" {
			clause, args := searchClause(f.Search, "barcode", "serial_number", "brand", "model_series")
			db = db.Where(clause, args...)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Asset{}).Scopes(filter).Count(&total).Error; err != nil {
		return Page[models.Asset]{}, fmt.Errorf("count assets: %w", err)
	}

	items := make([]models.Asset, 0, p.Size)
	err := s.db.WithContext(ctx).
		Scopes(filter).
		Preload("School.Area").
		Order(assetSort.order(p.SortBy, p.SortOrder)).
		Offset(p.offset()).
		Limit(p.Size).
		Find(&items).Error
	if err != nil {
		return Page[models.Asset]{}, fmt.Errorf("list assets: %w", err)
	}

	return Page[models.Asset]{Items: items, Total: total, Page: p.Page, Size: p.Size}, nil
}

func (s *AssetStore) Get(ctx context.Context, id uint) (*models.Asset, error) {
	return getAsset(s.db.WithContext(ctx), "id = ?", id)
}

func (s *AssetStore) GetByBarcode(ctx context.Context, barcode string) (*models.Asset, error) {
	return getAsset(s.db.WithContext(ctx), "barcode = ?", barcode)
}

func getAsset(db *gorm.DB, query string, arg any) (*models.Asset, error) {
	var a models.Asset
	if err := db.Preload("School.Area").Where(query, arg).First(&a).Error; err != nil {
		return nil, notFound(err, "asset")
	}
	return &a, nil
}

func (s *AssetStore) Create(ctx context.Context, actor Actor, in AssetInput) (*models.Asset, error) {
	return s.create(ctx, actor, in, models.ActionCreate, detailsCreate)
}

// create persists one asset and its audit entry in a single transaction.
func (s *AssetStore) create(ctx context.Context, actor Actor, in AssetInput, action, details string) (*models.Asset, error) {
	a := in.model()
	if err := check(&a); err != nil {
		return nil, err
	}

	var entry models.UpdateLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSchool(tx, a.SchoolID, apperr.InvalidInput); err != nil {
			return err
		}
		if err := s.ensureUnique(tx, &a); err != nil {
			return err
		}
		if err := tx.Create(&a).Error; err != nil {
			return translate("insert asset", err)
		}

		entry = assetLogEntry(tx, actor, a, action, details)
		return database.AppendUpdateLog(tx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.opts.committed(ctx, entry)
	return s.Get(ctx, a.ID)
}

func (s *AssetStore) Update(ctx context.Context, actor Actor, id uint, p AssetPatch) (*models.Asset, error) {
	var entry models.UpdateLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Asset
		if err := tx.First(&a, id).Error; err != nil {
			return notFound(err, "asset")
		}

		before := a.Status
		changes := p.apply(&a)
		if err := check(&a); err != nil {
			return err
		}
		if _, moved := changes["school_id"]; moved {
			if err := ensureSchool(tx, a.SchoolID, apperr.InvalidInput); err != nil {
				return err
			}
		}
		if err := s.ensureUnique(tx, &a); err != nil {
			return err
		}
		if len(changes) > 0 {
			if err := tx.Save(&a).Error; err != nil {
				return translate("update asset", err)
			}
		}

		details := detailsUpdate
		if a.Status != before {
			details += fmt.Sprintf(" (status: %s -> %s)", before, a.Status)
		}
		entry = assetLogEntry(tx, actor, a, models.ActionUpdate, details)
		if len(changes) > 0 {
			entry.Changes = datatypes.JSONMap(changes)
		}
		return database.AppendUpdateLog(tx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.opts.committed(ctx, entry)
	return s.Get(ctx, id)
}

// Delete removes the asset and returns the row as it was just before removal.
func (s *AssetStore) Delete(ctx context.Context, actor Actor, id uint) (*models.Asset, error) {
	var (
		snapshot models.Asset
		entry    models.UpdateLog
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("School.Area").First(&snapshot, id).Error; err != nil {
			return notFound(err, "asset")
		}

		entry = assetLogEntry(tx, actor, snapshot, models.ActionDelete, detailsDelete)
		if err := database.AppendUpdateLog(tx, &entry); err != nil {
			return err
		}
		if err := tx.Delete(&models.Asset{}, id).Error; err != nil {
			return fmt.Errorf("delete asset: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.committed(ctx, entry)
	return &snapshot, nil
}

// ensureUnique checks barcode, MAC and IP against every other asset.
func (s *AssetStore) ensureUnique(tx *gorm.DB, a *models.Asset) error {
	taken := func(column, value string) (bool, error) {
		var n int64
		err := tx.Model(&models.Asset{}).
			Where(column+" = ? AND id <> ?", value, a.ID).
			Count(&n).Error
		if err != nil {
			return false, fmt.Errorf("check %s: %w", column, err)
		}
		return n > 0, nil
	}

	if ok, err := taken("barcode", a.Barcode); err != nil {
		return err
	} else if ok {
		return apperr.Newf(apperr.Conflict, "barcode %s is already registered", a.Barcode)
	}

	if a.MACAddress != nil {
		if ok, err := taken("mac_address", *a.MACAddress); err != nil {
			return err
		} else if ok {
			return apperr.Newf(apperr.Conflict, "MAC address %s is already used by another asset", *a.MACAddress)
		}
	}

	if a.IPAddress != nil && !s.opts.sharesIP(a.CategoryCode) {
		if ok, err := taken("ip_address", *a.IPAddress); err != nil {
			return err
		} else if ok {
			return apperr.Newf(apperr.Conflict, "IP address %s is already used by another asset", *a.IPAddress)
		}
	}
	return nil
}

func ensureSchool(db *gorm.DB, id uint, kind apperr.Kind) error {
	var n int64
	if err := db.Model(&models.School{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check school: %w", err)
	}
	if n == 0 {
		return apperr.Newf(kind, "school %d not found", id)
	}
	return nil
}

func assetLogEntry(tx *gorm.DB, actor Actor, a models.Asset, action, details string) models.UpdateLog {
	school, area := database.LocationNames(tx, a.SchoolID)
	return models.UpdateLog{
		AssetBarcode: a.Barcode,
		AssetName:    a.Label(),
		Action:       action,
		Details:      details,
		Actor:        actor.Name,
		SchoolName:   school,
		AreaName:     area,
	}
}
