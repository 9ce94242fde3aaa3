// ABOUTME: Tests for the read-through query cache
// ABOUTME: Covers coalescing, invalidation, and in-flight supersession

package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sloobman/ControlSystem/internal/api"
)

// fakeGateway counts calls and can block in-flight fetches so tests can
// interleave invalidations with slow responses.
type fakeGateway struct {
	mu         sync.Mutex
	listCalls  int
	getCalls   int
	statsCalls int
	usersCalls int

	defects []api.Defect
	users   []api.User

	listErr error

	// When set, ListDefects signals listStarted then waits for listRelease.
	listStarted chan struct{}
	listRelease chan struct{}
}

func (f *fakeGateway) ListDefects(ctx context.Context) ([]api.Defect, error) {
	f.mu.Lock()
	f.listCalls++
	err := f.listErr
	started, release := f.listStarted, f.listRelease
	defects := append([]api.Defect(nil), f.defects...)
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return nil, err
	}
	return defects, nil
}

func (f *fakeGateway) GetDefect(ctx context.Context, id string) (*api.Defect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	for _, d := range f.defects {
		if d.ID == id {
			found := d
			return &found, nil
		}
	}
	return nil, &api.APIError{StatusCode: 404, Message: "defect not found"}
}

func (f *fakeGateway) CreateDefect(ctx context.Context, req api.CreateDefectRequest) (*api.Defect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := api.Defect{ID: "d-new", Title: req.Title, Priority: req.Priority, Status: api.StatusOpen}
	f.defects = append(f.defects, d)
	return &d, nil
}

func (f *fakeGateway) UpdateDefect(ctx context.Context, id string, req api.UpdateDefectRequest) (*api.Defect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.defects {
		if f.defects[i].ID == id {
			if req.Status != nil {
				f.defects[i].Status = *req.Status
			}
			if req.Title != nil {
				f.defects[i].Title = *req.Title
			}
			updated := f.defects[i]
			return &updated, nil
		}
	}
	return nil, &api.APIError{StatusCode: 404, Message: "defect not found"}
}

func (f *fakeGateway) DeleteDefect(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.defects {
		if f.defects[i].ID == id {
			f.defects = append(f.defects[:i], f.defects[i+1:]...)
			return nil
		}
	}
	return &api.APIError{StatusCode: 404, Message: "defect not found"}
}

func (f *fakeGateway) AddComment(ctx context.Context, id, content string) (*api.Defect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.defects {
		if f.defects[i].ID == id {
			f.defects[i].Comments = append(f.defects[i].Comments, api.Comment{ID: "c1", Content: content})
			updated := f.defects[i]
			return &updated, nil
		}
	}
	return nil, &api.APIError{StatusCode: 404, Message: "defect not found"}
}

// GetStats derives the counts from the current defects, so a refetched
// stats entry always reflects mutations applied in the meantime.
func (f *fakeGateway) GetStats(ctx context.Context) (*api.DefectStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	stats := api.DefectStats{Total: len(f.defects)}
	for _, d := range f.defects {
		switch d.Status {
		case api.StatusOpen:
			stats.Open++
		case api.StatusInProgress:
			stats.InProgress++
		case api.StatusResolved:
			stats.Resolved++
		case api.StatusClosed:
			stats.Closed++
		}
	}
	return &stats, nil
}

func (f *fakeGateway) ListUsers(ctx context.Context) ([]api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usersCalls++
	return append([]api.User(nil), f.users...), nil
}

func (f *fakeGateway) counts() (list, get, stats, users int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.getCalls, f.statsCalls, f.usersCalls
}

func TestDefects_ReadThrough(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1", Title: "Crack"}}}
	c := NewCache(gw)
	ctx := context.Background()

	first, err := c.Defects(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := c.Defects(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	list, _, _, _ := gw.counts()
	assert.Equal(t, 1, list, "second read should come from cache")
}

func TestDefects_ConcurrentReadsCoalesce(t *testing.T) {
	gw := &fakeGateway{
		defects:     []api.Defect{{ID: "d1"}},
		listStarted: make(chan struct{}, 1),
		listRelease: make(chan struct{}),
	}
	c := NewCache(gw)
	ctx := context.Background()

	const readers = 5
	var wg sync.WaitGroup
	results := make([][]api.Defect, readers)
	errs := make([]error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Defects(ctx)
		}(i)
	}

	// Wait for the single underlying fetch to start, then give the other
	// readers time to pile onto it before letting it complete.
	<-gw.listStarted
	time.Sleep(20 * time.Millisecond)
	close(gw.listRelease)
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 1)
	}
	list, _, _, _ := gw.counts()
	assert.Equal(t, 1, list, "concurrent reads should share one fetch")
}

func TestInvalidate_NextReadRefetches(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1"}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defects(ctx)
	require.NoError(t, err)

	c.Invalidate(DefectsKey())

	_, err = c.Defects(ctx)
	require.NoError(t, err)

	list, _, _, _ := gw.counts()
	assert.Equal(t, 2, list)
}

func TestInvalidate_DoesNotRefetchEagerly(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1"}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defects(ctx)
	require.NoError(t, err)

	c.Invalidate(DefectsKey())
	c.Invalidate(DefectsKey())

	list, _, _, _ := gw.counts()
	assert.Equal(t, 1, list, "invalidation alone must not trigger fetches")
}

func TestFetchError_PropagatesAndRetries(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("boom")}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defects(ctx)
	require.Error(t, err)

	// Error is not cached; the next read retries and succeeds.
	gw.mu.Lock()
	gw.listErr = nil
	gw.defects = []api.Defect{{ID: "d1"}}
	gw.mu.Unlock()

	defects, err := c.Defects(ctx)
	require.NoError(t, err)
	assert.Len(t, defects, 1)

	list, _, _, _ := gw.counts()
	assert.Equal(t, 2, list)
}

func TestInvalidationDuringFetch_DropsResult(t *testing.T) {
	gw := &fakeGateway{
		defects:     []api.Defect{{ID: "old"}},
		listStarted: make(chan struct{}, 1),
		listRelease: make(chan struct{}),
	}
	c := NewCache(gw)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defects, err := c.Defects(ctx)
		// The slow first read still gets its answer.
		assert.NoError(t, err)
		assert.Len(t, defects, 1)
	}()

	<-gw.listStarted
	// The entry was invalidated while the fetch was in flight, so its result
	// must not be cached as fresh.
	c.Invalidate(DefectsKey())
	close(gw.listRelease)
	<-done

	gw.mu.Lock()
	gw.listStarted = nil
	gw.mu.Unlock()

	_, err := c.Defects(ctx)
	require.NoError(t, err)

	list, _, _, _ := gw.counts()
	assert.Equal(t, 2, list, "superseded result must not satisfy later reads")
}

func TestCreateDefect_InvalidatesCollectionAndStats(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1"}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defects(ctx)
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)
	_, err = c.Users(ctx)
	require.NoError(t, err)

	_, err = c.CreateDefect(ctx, api.CreateDefectRequest{Title: "New"})
	require.NoError(t, err)

	_, err = c.Defects(ctx)
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)
	_, err = c.Users(ctx)
	require.NoError(t, err)

	list, _, stats, users := gw.counts()
	assert.Equal(t, 2, list, "collection refetched after create")
	assert.Equal(t, 2, stats, "stats refetched after create")
	assert.Equal(t, 1, users, "user directory untouched by create")
}

func TestUpdateDefect_InvalidatesDetailCollectionAndStats(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1", Status: api.StatusOpen}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defect(ctx, "d1")
	require.NoError(t, err)
	_, err = c.Defects(ctx)
	require.NoError(t, err)
	before, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, before.Open)
	assert.Equal(t, 0, before.Resolved)

	status := api.StatusResolved
	updated, err := c.UpdateDefect(ctx, "d1", api.UpdateDefectRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, api.StatusResolved, updated.Status)

	refetched, err := c.Defect(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, api.StatusResolved, refetched.Status)

	_, err = c.Defects(ctx)
	require.NoError(t, err)
	after, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Open, "stats must reflect the status change")
	assert.Equal(t, 1, after.Resolved, "stats must reflect the status change")

	list, get, stats, _ := gw.counts()
	assert.Equal(t, 2, get)
	assert.Equal(t, 2, list)
	assert.Equal(t, 2, stats)
}

func TestAddComment_LeavesStatsFresh(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1"}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defect(ctx, "d1")
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)

	_, err = c.AddComment(ctx, "d1", "checked on site")
	require.NoError(t, err)

	withComment, err := c.Defect(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, withComment.Comments, 1)

	_, err = c.Stats(ctx)
	require.NoError(t, err)

	_, get, stats, _ := gw.counts()
	assert.Equal(t, 2, get, "detail refetched after comment")
	assert.Equal(t, 1, stats, "comments do not change the counts")
}

func TestDeleteDefect_Invalidates(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1"}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defects(ctx)
	require.NoError(t, err)

	require.NoError(t, c.DeleteDefect(ctx, "d1"))

	defects, err := c.Defects(ctx)
	require.NoError(t, err)
	assert.Empty(t, defects)
}

func TestMutationError_NoInvalidation(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1"}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defects(ctx)
	require.NoError(t, err)

	_, err = c.UpdateDefect(ctx, "missing", api.UpdateDefectRequest{})
	require.Error(t, err)

	_, err = c.Defects(ctx)
	require.NoError(t, err)

	list, _, _, _ := gw.counts()
	assert.Equal(t, 1, list, "failed mutation must not invalidate")
}

func TestReset_DropsEverything(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1"}}}
	c := NewCache(gw)
	ctx := context.Background()

	_, err := c.Defects(ctx)
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)

	c.Reset()

	_, err = c.Defects(ctx)
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)

	list, _, stats, _ := gw.counts()
	assert.Equal(t, 2, list)
	assert.Equal(t, 2, stats)
}

// TestScenario_ListDetailCommentBack walks the common screen flow: open the
// list, open a defect, comment on it, go back to the list.
func TestScenario_ListDetailCommentBack(t *testing.T) {
	gw := &fakeGateway{defects: []api.Defect{{ID: "d1", Title: "Crack"}, {ID: "d2", Title: "Leak"}}}
	c := NewCache(gw)
	ctx := context.Background()

	defects, err := c.Defects(ctx)
	require.NoError(t, err)
	require.Len(t, defects, 2)

	detail, err := c.Defect(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Crack", detail.Title)

	_, err = c.AddComment(ctx, "d1", "needs rework")
	require.NoError(t, err)

	// Back on the list: the collection was invalidated by the comment.
	_, err = c.Defects(ctx)
	require.NoError(t, err)

	list, get, _, _ := gw.counts()
	assert.Equal(t, 2, list)
	assert.Equal(t, 1, get, "detail not refetched until reopened")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "defects", DefectsKey().String())
	assert.Equal(t, "defect:d1", DefectKey("d1").String())
	assert.Equal(t, "stats", StatsKey().String())
	assert.Equal(t, "users", UsersKey().String())
}
