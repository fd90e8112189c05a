package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/model"
)

func seedListings(t *testing.T, c *MemoryCollection[model.ClassListing], listings ...model.ClassListing) []primitive.ObjectID {
	t.Helper()
	ids := make([]primitive.ObjectID, 0, len(listings))
	for i := range listings {
		res, err := c.Insert(context.Background(), &listings[i])
		require.NoError(t, err)
		require.True(t, res.Acknowledged)
		ids = append(ids, res.InsertedID)
	}
	return ids
}

func TestMemoryFindFilters(t *testing.T) {
	c := NewMemoryCollection[model.ClassListing](ClassesCollection)
	seedListings(t, c,
		model.ClassListing{Name: "a", InstructorEmail: "x@camp.test", AvailableSeats: 0},
		model.ClassListing{Name: "b", InstructorEmail: "x@camp.test", AvailableSeats: 3, Feedback: "ok"},
		model.ClassListing{Name: "c", InstructorEmail: "y@camp.test", AvailableSeats: 2},
	)
	ctx := context.Background()

	got, err := c.Find(ctx, ByField("instructorEmail", "x@camp.test"))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = c.Find(ctx, Where(Gt("availableSeats", 0)))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = c.Find(ctx, Where(Exists("feedback", true)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)

	got, err = c.Find(ctx, ByField("instructorEmail", "nobody@camp.test"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	one, err := c.FindOne(ctx, ByField("name", "missing"))
	require.NoError(t, err)
	assert.Nil(t, one)
}

func TestMemorySortTieBreaksByInsertion(t *testing.T) {
	c := NewMemoryCollection[model.PopularTeacher](PopularTeachersCollection)
	ctx := context.Background()
	for _, tc := range []struct {
		name string
		n    int
	}{{"first", 3}, {"top", 7}, {"second", 3}, {"third", 3}} {
		_, err := c.Insert(ctx, &model.PopularTeacher{Name: tc.name, EnrolledStudents: tc.n})
		require.NoError(t, err)
	}

	got, err := c.Find(ctx, nil, SortBy("enrolledStudents", true))
	require.NoError(t, err)
	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"top", "first", "second", "third"}, names)
}

func TestMemoryUpdateAndDeleteCounts(t *testing.T) {
	c := NewMemoryCollection[model.ClassListing](ClassesCollection)
	ids := seedListings(t, c, model.ClassListing{Name: "a", Status: model.StatusPending})
	ctx := context.Background()
	byID := Where(Eq("_id", ids[0]))

	res, err := c.UpdateOne(ctx, byID, NewUpdate().Set("status", model.StatusApproved))
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, res)

	res, err = c.UpdateOne(ctx, byID, NewUpdate().Set("status", model.StatusApproved))
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 0}, res)

	del, err := c.DeleteOne(ctx, byID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, del.DeletedCount)

	del, err = c.DeleteOne(ctx, byID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, del.DeletedCount)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryRejectsDuplicateID(t *testing.T) {
	c := NewMemoryCollection[model.User](UsersCollection)
	id := primitive.NewObjectID()
	_, err := c.Insert(context.Background(), &model.User{ID: id, Email: "a@camp.test"})
	require.NoError(t, err)
	_, err = c.Insert(context.Background(), &model.User{ID: id, Email: "b@camp.test"})
	assert.Error(t, err)
}

func TestMemoryFindOneAndUpdateNeverGoesNegative(t *testing.T) {
	c := NewMemoryCollection[model.ClassListing](ClassesCollection)
	const seats, workers = 7, 50
	ids := seedListings(t, c, model.ClassListing{Name: "pottery", AvailableSeats: seats})
	ctx := context.Background()
	filter := Where(Eq("_id", ids[0]), Gt("availableSeats", 0))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := c.FindOneAndUpdate(ctx, filter, NewUpdate().Inc("availableSeats", -1).Inc("enrolledStudents", 1))
			if !assert.NoError(t, err) || doc == nil {
				return
			}
			assert.GreaterOrEqual(t, doc.AvailableSeats, 0)
			mu.Lock()
			won++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, seats, won)
	got, err := c.FindOne(ctx, Where(Eq("_id", ids[0])))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.AvailableSeats)
	assert.Equal(t, seats, got.EnrolledStudents)
}

func TestMemoryCancelledContextIsUnavailable(t *testing.T) {
	c := NewMemoryCollection[model.User](UsersCollection)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Find(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}
