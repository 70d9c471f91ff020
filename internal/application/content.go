package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/helpers"
)

// viewFlushEvery is how many cached views accumulate in Redis before they are
// flushed into the row.
const viewFlushEvery = 10

// publish moves content into PUBLISHED. at overrides the publication
// timestamp when the caller supplies one.
func publish(status *entity.PublicationStatus, publishedAt **time.Time, at *time.Time) error {
	if *status == entity.StatusPublished {
		return ErrAlreadyPublished
	}
	t := time.Now()
	if at != nil {
		t = *at
	}
	*status = entity.StatusPublished
	*publishedAt = &t
	return nil
}

// unpublish returns content to DRAFT and clears the publication timestamp.
func unpublish(status *entity.PublicationStatus, publishedAt **time.Time) error {
	if *status != entity.StatusPublished {
		return ErrNotPublishedState
	}
	*status = entity.StatusDraft
	*publishedAt = nil
	return nil
}

// changeStatus applies a direct status update through the transition table.
// Publish and unpublish have their own guarded actions and are not reachable
// here. Leaving PUBLISHED clears the publication timestamp so it stays
// non-null only while the content is published.
func changeStatus(status *entity.PublicationStatus, publishedAt **time.Time, to entity.PublicationStatus) error {
	if !to.Valid() {
		return ErrInvalidTransition
	}
	if !entity.CanTransitionContent(*status, to) {
		return ErrInvalidTransition
	}
	if *status == entity.StatusPublished && to != entity.StatusPublished {
		*publishedAt = nil
	}
	*status = to
	return nil
}

// scopeFilter narrows a list filter to what the actor may see. Admins list
// anything; owners list their own content in any status; everyone else gets
// published-only regardless of the requested filter.
func scopeFilter(actor Actor, f *repo.ContentFilter) {
	if actor.IsAdmin() {
		return
	}
	if actor.ID != "" && f.OwnerID == actor.ID {
		return
	}
	published := entity.StatusPublished
	f.Status = &published
}

// authorize gates a mutation. Content the actor cannot even see reads as
// missing; content they can see but do not own is forbidden.
func authorize(actor Actor, status entity.PublicationStatus, ownerID string) error {
	if actor.CanMutate(ownerID) {
		return nil
	}
	if !actor.CanSee(status, ownerID) {
		return ErrNotFound
	}
	return ErrForbidden
}

// looksLikeID distinguishes a uuid path segment from a slug.
func looksLikeID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// uniqueSlug builds the stored slug. An explicit slug skips normalization
// but still goes through the uniqueness probe; excludeID keeps an update
// from colliding with its own row.
func uniqueSlug(ctx context.Context, title, explicit, excludeID string, exists func(ctx context.Context, slug, excludeID string) (bool, error)) (string, error) {
	base := explicit
	if base == "" {
		base = helpers.Slugify(title)
	}
	return helpers.EnsureUniqueSlug(ctx, base, func(ctx context.Context, slug string) (bool, error) {
		return exists(ctx, slug, excludeID)
	})
}

// viewCounter batches content views in Redis and flushes them into rows.
// Everything here is best-effort: a Redis outage costs view counts, not
// requests.
type viewCounter struct {
	rdb *redis.Client
	log *logrus.Logger
}

func (v viewCounter) bump(ctx context.Context, key string, flush func(ctx context.Context, delta int64) error) {
	if v.rdb == nil {
		return
	}
	n, err := v.rdb.Incr(ctx, key).Result()
	if err != nil {
		v.log.WithError(err).WithField("key", key).Warn("view counter incr failed")
		return
	}
	if n%viewFlushEvery != 0 {
		return
	}
	raw, err := v.rdb.GetDel(ctx, key).Result()
	if err != nil {
		v.log.WithError(err).WithField("key", key).Warn("view counter read failed")
		return
	}
	delta, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || delta == 0 {
		return
	}
	if err := flush(ctx, delta); err != nil {
		v.log.WithError(err).WithField("key", key).Warn("view counter flush failed")
	}
}

func viewKey(kind, id string) string {
	return "views:" + kind + ":" + id
}

// indexDoc writes a search document, best-effort with a short deadline.
func indexDoc(ctx context.Context, es *elasticsearch.Client, log *logrus.Logger, index, id string, doc map[string]any) {
	if es == nil || index == "" {
		return
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, es)
	if err != nil {
		log.WithError(err).WithField("doc_id", id).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		log.WithField("status", res.Status()).WithField("doc_id", id).Warn("es index response error")
	}
}

func deleteDoc(ctx context.Context, es *elasticsearch.Client, log *logrus.Logger, index, id string) {
	if es == nil || index == "" {
		return
	}
	req := esapi.DeleteRequest{Index: index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, es)
	if err != nil {
		log.WithError(err).WithField("doc_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}
