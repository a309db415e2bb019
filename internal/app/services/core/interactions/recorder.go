package interactions

import (
	"container/list"
	"context"
	"net/http"
	"sync"
	"time"

	"fhirhub-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// RequestEncountered snapshots one inbound request. Body capture is opt-in
// per route to control storage volume.
type RequestEncountered struct {
	Method     string            `bson:"method" json:"method"`
	URI        string            `bson:"uri" json:"uri"`
	Headers    http.Header       `bson:"headers" json:"headers"`
	RemoteAddr string            `bson:"remote_addr" json:"remoteAddr"`
	Params     map[string]string `bson:"params,omitempty" json:"params,omitempty"`
	Body       []byte            `bson:"body,omitempty" json:"body,omitempty"`
	ObservedAt time.Time         `bson:"observed_at" json:"observedAt"`
}

// ResponseEncountered snapshots the paired response.
type ResponseEncountered struct {
	StatusCode int         `bson:"status_code" json:"statusCode"`
	Headers    http.Header `bson:"headers" json:"headers"`
	Body       []byte      `bson:"body,omitempty" json:"body,omitempty"`
	ObservedAt time.Time   `bson:"observed_at" json:"observedAt"`
}

type RequestResponseEncountered struct {
	InteractionID string              `bson:"interaction_id" json:"interactionId"`
	TenantID      string              `bson:"tenant_id" json:"tenantId"`
	Request       RequestEncountered  `bson:"request" json:"request"`
	Response      ResponseEncountered `bson:"response" json:"response"`
}

// SnapshotPersistence durably stores recorder entries. The strategy is
// resolved per request from a header or the configured default.
type SnapshotPersistence interface {
	PersistSnapshot(ctx context.Context, snapshot *RequestResponseEncountered) error
}

// Recorder keeps the most recent N request/response pairs in memory.
// Eviction is strict insertion order: inserting entry N+1 drops the oldest.
type Recorder struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element

	persistence        SnapshotPersistence
	defaultPersistence string
	log                *zap.Logger
}

func NewRecorder(capacity int, persistence SnapshotPersistence, defaultPolicy string, log *zap.Logger) *Recorder {
	if capacity <= 0 {
		capacity = 50
	}
	if defaultPolicy == "" {
		defaultPolicy = constvars.PersistenceMongo
	}
	return &Recorder{
		capacity:           capacity,
		order:              list.New(),
		items:              make(map[string]*list.Element, capacity),
		persistence:        persistence,
		defaultPersistence: defaultPolicy,
		log:                log,
	}
}

// Record inserts a snapshot, evicting the oldest entry beyond capacity, then
// applies the resolved persistence policy. Persistence failures are logged
// only.
func (r *Recorder) Record(ctx context.Context, snapshot *RequestResponseEncountered, persistencePolicy string) {
	r.mu.Lock()
	if element, ok := r.items[snapshot.InteractionID]; ok {
		element.Value = snapshot
	} else {
		if r.order.Len() >= r.capacity {
			oldest := r.order.Back()
			if oldest != nil {
				evicted := oldest.Value.(*RequestResponseEncountered)
				delete(r.items, evicted.InteractionID)
				r.order.Remove(oldest)
			}
		}
		r.items[snapshot.InteractionID] = r.order.PushFront(snapshot)
	}
	r.mu.Unlock()

	policy := persistencePolicy
	if policy == "" {
		policy = r.defaultPersistence
	}

	switch policy {
	case constvars.PersistenceNone:
		// in-memory only
	case constvars.PersistenceMongo:
		if r.persistence == nil {
			return
		}
		if err := r.persistence.PersistSnapshot(ctx, snapshot); err != nil {
			r.log.Warn("recorder.Record snapshot persistence failed",
				zap.String(constvars.LoggingInteractionIDKey, snapshot.InteractionID),
				zap.Error(err),
			)
		}
	default:
		r.log.Warn("recorder.Record unknown persistence policy, keeping in memory only",
			zap.String("policy", policy),
		)
	}
}

// Get returns the in-memory snapshot for an interaction, when still retained.
func (r *Recorder) Get(interactionID string) (*RequestResponseEncountered, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	element, ok := r.items[interactionID]
	if !ok {
		return nil, false
	}
	return element.Value.(*RequestResponseEncountered), true
}

// Len reports the number of retained snapshots.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}
