package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sareeledger-backend/clients"
	"sareeledger-backend/config"
	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failPut bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, key string, body io.Reader) error {
	if s.failPut {
		return errors.New("bucket unreachable")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeMessenger struct {
	enabled bool
	err     error
	sent    []string
}

func (m *fakeMessenger) Enabled() bool { return m.enabled }

func (m *fakeMessenger) SendWhatsApp(to, body string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, to+"|"+body)
	return "SM123", nil
}

type fakeRecognizer struct {
	text string
	err  error
	got  []byte
}

func (r *fakeRecognizer) RecognizeText(_ context.Context, img []byte) (string, error) {
	r.got = img
	return r.text, r.err
}

func (r *fakeRecognizer) Close() error { return nil }

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db        *gorm.DB
	store     *fakeStore
	messenger *fakeMessenger
	locker    clients.RecordLocker
	settings  *SettingsService
	thankYou  *ThankYouService
	sales     *SaleService
	photos    *PhotoService
	customers *CustomerService
	reports   *ReportService
	dashboard *DashboardService
	user      uuid.UUID
	ctx       context.Context
}

var fixedNow = time.Date(2024, 2, 14, 11, 30, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := logger.Nop()
	env := &testEnv{
		db:        db,
		store:     newFakeStore(),
		messenger: &fakeMessenger{},
		locker:    clients.NewMemoryLocker(),
		user:      uuid.New(),
		ctx:       context.Background(),
	}
	env.settings = NewSettingsService(db, decimal.NewFromInt(1000000))
	env.thankYou = NewThankYouService(db, env.settings, env.messenger, log)
	env.thankYou.now = func() time.Time { return fixedNow }
	env.sales = NewSaleService(db, env.locker, env.thankYou, log)
	env.sales.now = func() time.Time { return fixedNow }
	env.photos = NewPhotoService(db, env.store, log)
	env.customers = NewCustomerService(db, env.locker, env.photos, log)
	env.reports = NewReportService(db)
	env.dashboard = NewDashboardService(db, env.settings)
	return env
}

func (e *testEnv) addCustomer(t *testing.T, name, phone, address string) *models.Customer {
	t.Helper()
	c, err := e.customers.Create(e.ctx, e.user, CustomerInput{Name: name, Phone: phone, Address: address})
	require.NoError(t, err)
	return c
}

func (e *testEnv) addSale(t *testing.T, customer *models.Customer, date, price string, qty int) *models.Sale {
	t.Helper()
	in := SaleInput{
		SareePrice: FormValue(price),
		Quantity:   FormValue(strconv.Itoa(qty)),
		SaleDate:   date,
	}
	if customer != nil {
		in.CustomerID = customer.ID.String()
	}
	s, _, err := e.sales.Record(e.ctx, e.user, in)
	require.NoError(t, err)
	return s
}

func pngFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 320, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 320; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
