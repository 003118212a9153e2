package inventory

import (
	"context"
	"testing"

	"itam-backend/internal/apperr"
	"itam-backend/internal/models"

	"github.com/go-playground/assert/v2"
)

func TestCreateAsset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := laptop(e.fx.School.ID, 1)
	in.MACAddress = strp("aa-bb-cc-dd-ee-01")

	a, err := e.assets.Create(ctx, admin, in)
	assert.Equal(t, err, nil)
	assert.NotEqual(t, a.ID, uint(0))
	assert.Equal(t, a.Status, models.StatusWorking)
	assert.Equal(t, *a.MACAddress, "AA:BB:CC:DD:EE:01")
	assert.Equal(t, a.IPAddress == nil, true)
	assert.Equal(t, a.School.Name, "SMAK 1 - Tanjung Duren")
	assert.Equal(t, a.School.Area.Name, "Barat")

	var entry models.UpdateLog
	assert.Equal(t, e.db.Last(&entry).Error, nil)
	assert.Equal(t, entry.Action, models.ActionCreate)
	assert.Equal(t, entry.AssetBarcode, in.Barcode)
	assert.Equal(t, entry.AssetName, "Lenovo - ThinkPad T14")
	assert.Equal(t, entry.Actor, "Super Admin IT")
	assert.Equal(t, entry.SchoolName, "SMAK 1 - Tanjung Duren")
	assert.Equal(t, entry.AreaName, "Barat")
	assert.Equal(t, entry.Details, "Menambahkan aset baru ke database")
	assert.Equal(t, e.events.actions(), []string{models.ActionCreate})
}

func TestCreateDuplicateBarcode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := laptop(e.fx.School.ID, 1)
	_, err := e.assets.Create(ctx, admin, in)
	assert.Equal(t, err, nil)

	dup := laptop(e.fx.School2.ID, 2)
	dup.Barcode = in.Barcode
	_, err = e.assets.Create(ctx, admin, dup)
	assert.Equal(t, apperr.KindOf(err), apperr.Conflict)

	var n int64
	e.db.Model(&models.Asset{}).Where("barcode = ?", in.Barcode).Count(&n)
	assert.Equal(t, n, int64(1))
	assert.Equal(t, e.countLogs(t), int64(1))
}

func TestCreateDuplicateMACAnyCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := cctv(e.fx.School.ID, 1)
	first.MACAddress = strp("00:1A:2B:3C:4D:5E")
	_, err := e.assets.Create(ctx, admin, first)
	assert.Equal(t, err, nil)

	tests := []struct {
		name string
		in   AssetInput
	}{
		{"shared ip category", cctv(e.fx.School.ID, 2)},
		{"regular category", laptop(e.fx.School.ID, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.MACAddress = strp("00-1a-2b-3c-4d-5e")
			_, err := e.assets.Create(ctx, admin, tt.in)
			assert.Equal(t, apperr.KindOf(err), apperr.Conflict)
		})
	}
}

func TestDuplicateIPAllowedForSharedCategories(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for seq := 1; seq <= 2; seq++ {
		in := cctv(e.fx.School.ID, seq)
		in.IPAddress = strp("192.168.10.20")
		_, err := e.assets.Create(ctx, admin, in)
		assert.Equal(t, err, nil)
	}

	lower := cctv(e.fx.School.ID, 3)
	lower.CategoryCode = "cctv"
	lower.IPAddress = strp("192.168.10.20")
	_, err := e.assets.Create(ctx, admin, lower)
	assert.Equal(t, err, nil)
}

func TestDuplicateIPRejectedForOtherCategories(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := laptop(e.fx.School.ID, 1)
	first.IPAddress = strp("10.0.0.5")
	_, err := e.assets.Create(ctx, admin, first)
	assert.Equal(t, err, nil)

	second := laptop(e.fx.School.ID, 2)
	second.IPAddress = strp("10.0.0.5")
	_, err = e.assets.Create(ctx, admin, second)
	assert.Equal(t, apperr.KindOf(err), apperr.Conflict)
}

func TestZeroPaddedIPTreatedAsSameAddress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := laptop(e.fx.School.ID, 1)
	first.IPAddress = strp("10.0.0.5")
	_, err := e.assets.Create(ctx, admin, first)
	assert.Equal(t, err, nil)

	second := laptop(e.fx.School.ID, 2)
	second.IPAddress = strp("010.000.000.005")
	_, err = e.assets.Create(ctx, admin, second)
	assert.NotEqual(t, err, nil)
	assert.Equal(t, apperr.KindOf(err), apperr.Conflict)

	third := laptop(e.fx.School.ID, 3)
	third.IPAddress = strp(" 010.000.000.006 ")
	created, err := e.assets.Create(ctx, admin, third)
	assert.Equal(t, err, nil)
	assert.Equal(t, *created.IPAddress, "10.0.0.6")

	_, err = e.assets.Update(ctx, admin, created.ID, AssetPatch{IPAddress: strp("10.00.0.05")})
	assert.NotEqual(t, err, nil)
	assert.Equal(t, apperr.KindOf(err), apperr.Conflict)
}

func TestNormalizeIP(t *testing.T) {
	tests := map[string]string{
		"10.0.0.5":        "10.0.0.5",
		"010.000.000.005": "10.0.0.5",
		" 192.168.001.1 ": "192.168.1.1",
		"0.0.0.0":         "0.0.0.0",
		"10.0.0.x":        "10.0.0.x",
	}
	for in, want := range tests {
		assert.Equal(t, NormalizeIP(in), want)
	}
}

func TestCreateValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(in *AssetInput)
		kind   apperr.Kind
	}{
		{"bad ip", func(in *AssetInput) { in.IPAddress = strp("256.1.1.1") }, apperr.InvalidInput},
		{"ip with letters", func(in *AssetInput) { in.IPAddress = strp("10.0.0.x") }, apperr.InvalidInput},
		{"bad mac", func(in *AssetInput) { in.MACAddress = strp("00:1A:2B:3C:4D") }, apperr.InvalidInput},
		{"missing barcode", func(in *AssetInput) { in.Barcode = "" }, apperr.InvalidInput},
		{"missing serial", func(in *AssetInput) { in.SerialNumber = " " }, apperr.InvalidInput},
		{"bad status", func(in *AssetInput) { in.Status = "Hilang" }, apperr.InvalidInput},
		{"bad month", func(in *AssetInput) { in.ProcurementMonth = "3" }, apperr.InvalidInput},
		{"unknown school", func(in *AssetInput) { in.SchoolID = 9999 }, apperr.InvalidInput},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := laptop(e.fx.School.ID, i+1)
			tt.mutate(&in)
			_, err := e.assets.Create(ctx, admin, in)
			assert.Equal(t, apperr.KindOf(err), tt.kind)
		})
	}
	assert.Equal(t, e.countLogs(t), int64(0))
}

func TestCreateRollsBackWhenLogAppendFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	assert.Equal(t, e.db.Migrator().DropTable(&models.UpdateLog{}), nil)

	_, err := e.assets.Create(ctx, admin, laptop(e.fx.School.ID, 1))
	assert.NotEqual(t, err, nil)
	assert.Equal(t, apperr.KindOf(err), apperr.Internal)

	var n int64
	e.db.Model(&models.Asset{}).Count(&n)
	assert.Equal(t, n, int64(0))
	assert.Equal(t, len(e.events.actions()), 0)
}

func TestPartialUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := laptop(e.fx.School.ID, 1)
	in.IPAddress = strp("10.0.0.9")
	created, err := e.assets.Create(ctx, admin, in)
	assert.Equal(t, err, nil)

	status := models.StatusBroken
	updated, err := e.assets.Update(ctx, admin, created.ID, AssetPatch{Status: &status})
	assert.Equal(t, err, nil)
	assert.Equal(t, updated.Status, models.StatusBroken)

	reread, err := e.assets.Get(ctx, created.ID)
	assert.Equal(t, err, nil)
	assert.Equal(t, reread.Brand, created.Brand)
	assert.Equal(t, reread.ModelSeries, created.ModelSeries)
	assert.Equal(t, reread.SerialNumber, created.SerialNumber)
	assert.Equal(t, *reread.IPAddress, "10.0.0.9")
	assert.Equal(t, reread.Barcode, created.Barcode)

	var entry models.UpdateLog
	assert.Equal(t, e.db.Where("action = ?", models.ActionUpdate).First(&entry).Error, nil)
	assert.Equal(t, entry.Details, "Memperbarui data aset (status: Berfungsi -> Rusak)")
	change, ok := entry.Changes["status"].(map[string]interface{})
	assert.Equal(t, ok, true)
	assert.Equal(t, change["old"], "Berfungsi")
	assert.Equal(t, change["new"], "Rusak")
	_, touched := entry.Changes["brand"]
	assert.Equal(t, touched, false)
}

func TestUpdateUniquenessExcludesOwnRow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := laptop(e.fx.School.ID, 1)
	in.IPAddress = strp("10.0.0.1")
	in.MACAddress = strp("00:00:00:00:00:01")
	a, err := e.assets.Create(ctx, admin, in)
	assert.Equal(t, err, nil)

	_, err = e.assets.Update(ctx, admin, a.ID, AssetPatch{
		IPAddress:  strp("10.0.0.1"),
		MACAddress: strp("00-00-00-00-00-01"),
		Brand:      strp("Dell"),
	})
	assert.Equal(t, err, nil)

	other := laptop(e.fx.School.ID, 2)
	b, err := e.assets.Create(ctx, admin, other)
	assert.Equal(t, err, nil)

	_, err = e.assets.Update(ctx, admin, b.ID, AssetPatch{IPAddress: strp("10.0.0.1")})
	assert.Equal(t, apperr.KindOf(err), apperr.Conflict)

	_, err = e.assets.Update(ctx, admin, b.ID, AssetPatch{MACAddress: strp("00:00:00:00:00:01")})
	assert.Equal(t, apperr.KindOf(err), apperr.Conflict)

	_, err = e.assets.Update(ctx, admin, b.ID, AssetPatch{IPAddress: strp("10.0.0.300")})
	assert.Equal(t, apperr.KindOf(err), apperr.InvalidInput)
}

func TestUpdateClearsIP(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := laptop(e.fx.School.ID, 1)
	in.IPAddress = strp("10.0.0.1")
	a, err := e.assets.Create(ctx, admin, in)
	assert.Equal(t, err, nil)

	a, err = e.assets.Update(ctx, admin, a.ID, AssetPatch{IPAddress: strp("")})
	assert.Equal(t, err, nil)
	assert.Equal(t, a.IPAddress == nil, true)
}

func TestUpdateMissingAsset(t *testing.T) {
	e := newEnv(t)
	_, err := e.assets.Update(context.Background(), admin, 42, AssetPatch{Brand: strp("Dell")})
	assert.Equal(t, apperr.KindOf(err), apperr.NotFound)
}

func TestDeleteReturnsSnapshot(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.assets.Create(ctx, admin, laptop(e.fx.School.ID, 1))
	assert.Equal(t, err, nil)
	before, err := e.assets.Get(ctx, created.ID)
	assert.Equal(t, err, nil)

	snapshot, err := e.assets.Delete(ctx, admin, created.ID)
	assert.Equal(t, err, nil)
	assert.Equal(t, snapshot.ID, before.ID)
	assert.Equal(t, snapshot.Barcode, before.Barcode)
	assert.Equal(t, snapshot.Brand, before.Brand)
	assert.Equal(t, snapshot.Status, before.Status)
	assert.Equal(t, snapshot.SerialNumber, before.SerialNumber)
	assert.Equal(t, snapshot.UpdatedAt.Equal(before.UpdatedAt), true)
	assert.Equal(t, snapshot.School.Name, before.School.Name)

	_, err = e.assets.Get(ctx, created.ID)
	assert.Equal(t, apperr.KindOf(err), apperr.NotFound)

	var entry models.UpdateLog
	assert.Equal(t, e.db.Where("action = ?", models.ActionDelete).First(&entry).Error, nil)
	assert.Equal(t, entry.SchoolName, "SMAK 1 - Tanjung Duren")
	assert.Equal(t, entry.AreaName, "Barat")

	_, err = e.assets.Delete(ctx, admin, created.ID)
	assert.Equal(t, apperr.KindOf(err), apperr.NotFound)
}

func TestOneLogRowPerMutation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	operator := Actor{UserID: 7, Name: "operator@bpkpenabur.id", Role: models.RoleOperator}

	a, err := e.assets.Create(ctx, operator, laptop(e.fx.School.ID, 1))
	assert.Equal(t, err, nil)
	assert.Equal(t, e.countLogs(t), int64(1))

	_, err = e.assets.Update(ctx, operator, a.ID, AssetPatch{Room: strp("Lab Komputer")})
	assert.Equal(t, err, nil)
	assert.Equal(t, e.countLogs(t), int64(2))

	_, err = e.assets.Delete(ctx, operator, a.ID)
	assert.Equal(t, err, nil)
	assert.Equal(t, e.countLogs(t), int64(3))

	var logs []models.UpdateLog
	e.db.Order("id").Find(&logs)
	for i, action := range []string{models.ActionCreate, models.ActionUpdate, models.ActionDelete} {
		assert.Equal(t, logs[i].Action, action)
		assert.Equal(t, logs[i].Actor, "operator@bpkpenabur.id")
	}
	assert.Equal(t, e.events.actions(), []string{models.ActionCreate, models.ActionUpdate, models.ActionDelete})
}

func TestGetByBarcode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := laptop(e.fx.School.ID, 1)
	_, err := e.assets.Create(ctx, admin, in)
	assert.Equal(t, err, nil)

	a, err := e.assets.GetByBarcode(ctx, in.Barcode)
	assert.Equal(t, err, nil)
	assert.Equal(t, a.SerialNumber, in.SerialNumber)

	_, err = e.assets.GetByBarcode(ctx, "01-A01")
	assert.Equal(t, apperr.KindOf(err), apperr.NotFound)
}
