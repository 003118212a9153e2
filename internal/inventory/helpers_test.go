package inventory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"itam-backend/internal/database/dbtest"
	"itam-backend/internal/models"

	"gorm.io/gorm"
)

var admin = Actor{UserID: 1, Name: "Super Admin IT", Role: models.RoleAdmin}

type recorder struct {
	mu      sync.Mutex
	entries []models.UpdateLog
}

func (r *recorder) Notify(_ context.Context, entry models.UpdateLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

type env struct {
	db      *gorm.DB
	fx      dbtest.Fixture
	assets  *AssetStore
	events  *recorder
	options []Option
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	e := &env{db: db, fx: dbtest.Seed(t, db), events: &recorder{}}
	e.options = []Option{
		WithNotifier(e.events),
		WithSharedIPCategories("CTV", "CCTV", "Router", "Access Point"),
	}
	e.assets = NewAssetStore(db, e.options...)
	return e
}

func strp(s string) *string { return &s }

func laptop(schoolID uint, seq int) AssetInput {
	return AssetInput{
		Barcode:          fmt.Sprintf("01-A01-HW-LTP-%02d24-001-%03d", 3, seq),
		SchoolID:         schoolID,
		CityCode:         "01",
		TypeCode:         "HW",
		CategoryCode:     "Laptop",
		ProcurementMonth: "03",
		ProcurementYear:  "24",
		Floor:            "001",
		SequenceNumber:   fmt.Sprintf("%03d", seq),
		Brand:            "Lenovo",
		ModelSeries:      "ThinkPad T14",
		SerialNumber:     fmt.Sprintf("SN-LTP-%03d", seq),
	}
}

func cctv(schoolID uint, seq int) AssetInput {
	in := laptop(schoolID, seq)
	in.Barcode = fmt.Sprintf("01-A01-IT-CTV-IPI-%03d", seq)
	in.TypeCode = "IT"
	in.CategoryCode = "CCTV"
	in.Brand = "Hikvision"
	in.ModelSeries = "DS-2CD1023"
	in.Placement = models.PlacementOutdoor
	in.SerialNumber = fmt.Sprintf("SN-CTV-%03d", seq)
	return in
}

func (e *env) countLogs(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&models.UpdateLog{}).Count(&n).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	return n
}
