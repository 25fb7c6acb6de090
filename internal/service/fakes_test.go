package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"geoloc193/internal/model"
	"geoloc193/internal/mpostgres"

	"github.com/go-redis/redis"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sequenceReader struct {
	mu   sync.Mutex
	next byte
}

func (r *sequenceReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range p {
		p[i] = r.next
	}
	r.next++
	return len(p), nil
}

func newTestTokenService(clock *fakeClock) *tokenService {
	return &tokenService{ttl: DefaultLinkTTL, entropy: &sequenceReader{}, nowFunc: clock.Now}
}

type fakeRequestStore struct {
	mu             sync.Mutex
	nextID         int64
	rows           map[int64]model.Request
	digits         map[int64]string
	forceDuplicate int
	deliveryErr    error
	suffixLookups  int
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		rows:   map[int64]model.Request{},
		digits: map[int64]string{},
	}
}

func (f *fakeRequestStore) CreateRequest(_ context.Context, req model.Request, phoneDigits string) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forceDuplicate > 0 {
		f.forceDuplicate--
		return model.Request{}, mpostgres.ErrDuplicateToken
	}
	for _, row := range f.rows {
		if row.LinkToken == req.LinkToken {
			return model.Request{}, mpostgres.ErrDuplicateToken
		}
	}

	f.nextID++
	req.ID = f.nextID
	req.UpdatedAt = req.CreatedAt
	f.rows[req.ID] = req
	f.digits[req.ID] = phoneDigits
	return req, nil
}

func (f *fakeRequestStore) GetRequest(_ context.Context, id int64) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return model.Request{}, mpostgres.ErrNotFound
	}
	return row, nil
}

func (f *fakeRequestStore) GetRequestByToken(_ context.Context, token string) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.LinkToken == token {
			return row, nil
		}
	}
	return model.Request{}, mpostgres.ErrNotFound
}

func (f *fakeRequestStore) newestFirst(match func(model.Request) bool) []model.Request {
	out := []model.Request{}
	for _, row := range f.rows {
		if match(row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeRequestStore) FindActiveByPhoneSuffix(_ context.Context, suffix string, limit int) ([]model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suffixLookups++
	out := f.newestFirst(func(r model.Request) bool {
		return !r.Archived && strings.HasSuffix(f.digits[r.ID], suffix)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRequestStore) ListRequests(_ context.Context, filter model.RequestFilter) ([]model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.newestFirst(func(r model.Request) bool {
		if filter.Status != nil && r.Status != *filter.Status {
			return false
		}
		return filter.IncludeArchived || !r.Archived
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status.Priority() < out[j].Status.Priority()
	})
	return out, nil
}

func (f *fakeRequestStore) UpdateDelivery(_ context.Context, id int64, delivery model.Delivery, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deliveryErr != nil {
		return f.deliveryErr
	}
	row, ok := f.rows[id]
	if !ok {
		return mpostgres.ErrNotFound
	}
	row.DeliveryStatus = delivery.Status
	row.DeliveryErrorCode = delivery.ErrorCode
	row.ProviderMessageID = delivery.ProviderMessageID
	row.UpdatedAt = now
	f.rows[id] = row
	return nil
}

func (f *fakeRequestStore) UpdateLocation(_ context.Context, id int64, update model.LocationUpdate, now time.Time) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.Archived || row.Status == model.StatusFinalized || !now.Before(row.LinkExpiresAt) {
		return model.Request{}, mpostgres.ErrStatusMismatch
	}
	loc := update.Location
	row.Location = &loc
	if update.Address != "" {
		row.Address = update.Address
	}
	if update.PlusCode != "" {
		row.PlusCode = update.PlusCode
	}
	row.Status = model.StatusReceived
	row.UpdatedAt = now
	f.rows[id] = row
	return row, nil
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, id int64, expected, next model.Status, operatorID int64, now time.Time) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.Status != expected {
		return model.Request{}, mpostgres.ErrStatusMismatch
	}
	row.Status = next
	if next == model.StatusFinalized {
		row.FinalizedBy = &operatorID
	}
	row.UpdatedAt = now
	f.rows[id] = row
	return row, nil
}

func (f *fakeRequestStore) Archive(_ context.Context, id int64, now time.Time) (model.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return model.Request{}, mpostgres.ErrNotFound
	}
	row.Archived = true
	if row.ArchivedAt == nil {
		at := now
		row.ArchivedAt = &at
	}
	row.UpdatedAt = now
	f.rows[id] = row
	return row, nil
}

func (f *fakeRequestStore) ApplyDeliveryReport(_ context.Context, phoneFragment string, delivery model.Delivery, now time.Time) (int64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	candidates := f.newestFirst(func(r model.Request) bool {
		return !r.Archived && strings.Contains(f.digits[r.ID], phoneFragment)
	})
	if len(candidates) == 0 {
		return 0, 0, nil
	}
	row := candidates[0]
	row.DeliveryStatus = delivery.Status
	row.DeliveryErrorCode = delivery.ErrorCode
	row.UpdatedAt = now
	f.rows[row.ID] = row
	return row.ID, len(candidates), nil
}

func (f *fakeRequestStore) set(req model.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[req.ID] = req
}

type fakeMessageStore struct {
	mu     sync.Mutex
	clock  *fakeClock
	nextID int64
	rows   []model.Message
	lists  int

	// afterList runs once, after the next ListMessages has read its rows.
	afterList func()
}

func (f *fakeMessageStore) AppendMessage(_ context.Context, msg model.Message) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg.ID = f.nextID
	msg.CreatedAt = f.clock.Now()
	f.rows = append(f.rows, msg)
	return msg, nil
}

func (f *fakeMessageStore) ListMessages(_ context.Context, requestID int64) ([]model.Message, error) {
	f.mu.Lock()
	f.lists++
	out := []model.Message{}
	for _, m := range f.rows {
		if m.RequestID == requestID {
			out = append(out, m)
		}
	}
	afterList := f.afterList
	f.afterList = nil
	f.mu.Unlock()

	if afterList != nil {
		afterList()
	}
	return out, nil
}

func (f *fakeMessageStore) MarkRead(_ context.Context, requestID int64, senderRole model.SenderRole) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.rows {
		m := &f.rows[i]
		if m.RequestID == requestID && m.SenderRole == senderRole && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	result DispatchResult
	calls  []dispatchCall
}

type dispatchCall struct {
	Phone    string
	Token    string
	WithLink bool
}

func (d *fakeDispatcher) Send(_ context.Context, phone, token string, withLink bool) DispatchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatchCall{Phone: phone, Token: token, WithLink: withLink})
	return d.result
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fakeGeocoder struct {
	address  string
	plusCode string
	err      error
}

func (g fakeGeocoder) Reverse(context.Context, Coordinates) (string, string, error) {
	return g.address, g.plusCode, g.err
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return redis.NewStringResult("", c.getErr)
	}
	v, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *fakeCache) Set(key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	default:
		return redis.NewStatusResult("", errors.New("unsupported cache value"))
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *fakeCache) Del(keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (c *fakeCache) Incr(key string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if v, ok := c.values[key]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return redis.NewIntResult(0, err)
		}
		n = parsed
	}
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (c *fakeCache) Expire(key string, _ time.Duration) *redis.BoolCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return redis.NewBoolResult(ok, nil)
}
