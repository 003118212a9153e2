package inventory

import (
	"context"
	"fmt"
	"math"
	"testing"

	"itam-backend/internal/apperr"
	"itam-backend/internal/models"

	"github.com/go-playground/assert/v2"
)

func TestSortOrder(t *testing.T) {
	tests := []struct {
		by, dir string
		want    string
	}{
		{"brand", "asc", "brand ASC, id ASC"},
		{"BRAND", "ASC", "brand ASC, id ASC"},
		{"serial_number", "desc", "serial_number DESC, id DESC"},
		{"unknown_field", "", "created_at DESC, id DESC"},
		{"school_id; DROP TABLE assets", "asc", "created_at ASC, id ASC"},
		{"", "sideways", "created_at DESC, id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.by+"/"+tt.dir, func(t *testing.T) {
			assert.Equal(t, assetSort.order(tt.by, tt.dir), tt.want)
		})
	}
	assert.Equal(t, serviceSort.order("nope", ""), "service_date DESC, id DESC")
}

func TestPageRequestNormalized(t *testing.T) {
	p := PageRequest{}.normalized()
	assert.Equal(t, p.Page, 1)
	assert.Equal(t, p.Size, DefaultPageSize)

	p = PageRequest{Page: 3, Size: 500}.normalized()
	assert.Equal(t, p.Size, MaxPageSize)
	assert.Equal(t, p.offset(), 200)

	p = PageRequest{Page: math.MaxInt/10 + 2, Size: MaxPageSize}.normalized()
	assert.Equal(t, p.Page, MaxPage)
	assert.Equal(t, p.offset() > 0, true)
}

func TestListHugePageIsEmpty(t *testing.T) {
	e := newEnv(t)
	seedAssets(t, e, 3, nil)

	page, err := e.assets.List(context.Background(), AssetFilter{PageRequest: PageRequest{Page: math.MaxInt/10 + 2, Size: 10}})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(page.Items), 0)
	assert.Equal(t, page.Total, int64(3))
}

func seedAssets(t *testing.T, e *env, n int, mutate func(i int, in *AssetInput)) []models.Asset {
	t.Helper()
	out := make([]models.Asset, 0, n)
	for i := 1; i <= n; i++ {
		in := laptop(e.fx.School.ID, i)
		if mutate != nil {
			mutate(i, &in)
		}
		a, err := e.assets.Create(context.Background(), admin, in)
		if err != nil {
			t.Fatalf("create asset %d: %v", i, err)
		}
		out = append(out, *a)
	}
	return out
}

func TestListPagination(t *testing.T) {
	e := newEnv(t)
	seedAssets(t, e, 25, nil)

	page, err := e.assets.List(context.Background(), AssetFilter{PageRequest: PageRequest{Page: 2, Size: 10}})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(page.Items), 10)
	assert.Equal(t, page.Total, int64(25))
	assert.Equal(t, page.Page, 2)
	assert.Equal(t, page.Size, 10)

	last, err := e.assets.List(context.Background(), AssetFilter{PageRequest: PageRequest{Page: 3, Size: 10}})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(last.Items), 5)
}

func TestListUnknownSortFallsBackToNewestFirst(t *testing.T) {
	e := newEnv(t)
	created := seedAssets(t, e, 3, nil)

	page, err := e.assets.List(context.Background(), AssetFilter{PageRequest: PageRequest{SortBy: "unknown_field"}})
	assert.Equal(t, err, nil)
	assert.Equal(t, len(page.Items), 3)
	assert.Equal(t, page.Items[0].ID, created[2].ID)
	assert.Equal(t, page.Items[2].ID, created[0].ID)
	assert.Equal(t, page.Items[0].School.Area.Name, "Barat")
}

func TestListSortByBrand(t *testing.T) {
	e := newEnv(t)
	brands := []string{"Lenovo", "Acer", "HP"}
	seedAssets(t, e, 3, func(i int, in *AssetInput) { in.Brand = brands[i-1] })

	page, err := e.assets.List(context.Background(), AssetFilter{PageRequest: PageRequest{SortBy: "brand", SortOrder: "asc"}})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Items[0].Brand, "Acer")
	assert.Equal(t, page.Items[2].Brand, "Lenovo")
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	e := newEnv(t)
	seedAssets(t, e, 3, func(i int, in *AssetInput) {
		if i == 2 {
			in.Barcode = "01-A01-IT-CTV-IPI-002"
			in.Brand = "Hikvision"
		}
	})

	tests := []struct {
		search string
		want   int64
	}{
		{"ctv-ipi", 1},
		{"CTV-IPI", 1},
		{"hikVISION", 1},
		{"thinkpad", 3},
		{"sn-ltp-003", 1},
		{"no-such-thing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			page, err := e.assets.List(context.Background(), AssetFilter{Search: tt.search})
			assert.Equal(t, err, nil)
			assert.Equal(t, page.Total, tt.want)
		})
	}
}

func TestListSearchWildcardsAreLiteral(t *testing.T) {
	e := newEnv(t)
	seedAssets(t, e, 3, func(i int, in *AssetInput) {
		if i == 3 {
			in.ModelSeries = "Core_i5 100%"
		}
	})

	tests := []struct {
		search string
		want   int64
	}{
		{"_", 1},
		{"%", 1},
		{"e_i5", 1},
		{"re%i", 0},
		{"thinkpad_t14", 0},
		{"thinkpad", 2},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			page, err := e.assets.List(context.Background(), AssetFilter{Search: tt.search})
			assert.Equal(t, err, nil)
			assert.Equal(t, page.Total, tt.want)
		})
	}
}

func TestListFilters(t *testing.T) {
	e := newEnv(t)
	seedAssets(t, e, 4, func(i int, in *AssetInput) {
		if i%2 == 0 {
			in.SchoolID = e.fx.School2.ID
			in.TypeCode = "IT"
			in.CategoryCode = "CCTV"
		}
	})

	page, err := e.assets.List(context.Background(), AssetFilter{SchoolID: e.fx.School2.ID})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Total, int64(2))

	page, err = e.assets.List(context.Background(), AssetFilter{TypeCode: "HW"})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Total, int64(2))

	page, err = e.assets.List(context.Background(), AssetFilter{SchoolID: e.fx.School.ID, CategoryCode: "CCTV"})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Total, int64(0))

	_, err = e.assets.List(context.Background(), AssetFilter{SchoolID: 9999})
	assert.Equal(t, apperr.KindOf(err), apperr.NotFound)
}

func TestLogList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seedAssets(t, e, 3, nil)

	a, err := e.assets.GetByBarcode(ctx, laptop(e.fx.School.ID, 2).Barcode)
	assert.Equal(t, err, nil)
	_, err = e.assets.Delete(ctx, Actor{Name: "Teknisi Budi"}, a.ID)
	assert.Equal(t, err, nil)

	logs := NewLogStore(e.db)

	page, err := logs.List(ctx, LogFilter{})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Total, int64(4))
	assert.Equal(t, page.Items[0].Action, models.ActionDelete)

	page, err = logs.List(ctx, LogFilter{Action: "create"})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Total, int64(3))

	page, err = logs.List(ctx, LogFilter{Search: "budi"})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Total, int64(1))

	page, err = logs.List(ctx, LogFilter{Search: fmt.Sprintf("-%03d", 2)})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Total, int64(2))

	page, err = logs.List(ctx, LogFilter{PageRequest: PageRequest{SortBy: "action", SortOrder: "asc"}})
	assert.Equal(t, err, nil)
	assert.Equal(t, page.Items[0].Action, models.ActionCreate)
}
