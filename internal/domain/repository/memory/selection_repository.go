package memory

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"picklist/internal/common"
	"picklist/internal/domain/model"
	"picklist/internal/domain/repository"
)

// shardCount is fixed; each shard guards the selection sets of the users
// hashing into it. Toggle and Clear for the same user always hit the same
// shard, which gives the mutual exclusion the ledger contract requires,
// while operations on users in other shards proceed without contention.
const shardCount = 64

type selectionShard struct {
	mu     sync.Mutex
	byUser map[string]map[int64]model.Selection
}

type SelectionRepository struct {
	shards   [shardCount]*selectionShard
	users    *UserRepository
	products *ProductRepository
}

// NewSelectionRepository builds the ledger. The user and product
// repositories are consulted only for existence checks, mirroring the
// foreign keys the Postgres schema enforces.
func NewSelectionRepository(users *UserRepository, products *ProductRepository) *SelectionRepository {
	r := &SelectionRepository{users: users, products: products}
	for i := range r.shards {
		r.shards[i] = &selectionShard{
			byUser: make(map[string]map[int64]model.Selection),
		}
	}
	return r
}

var _ repository.SelectionRepository = (*SelectionRepository)(nil)

func (r *SelectionRepository) shardFor(userID string) *selectionShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

func (r *SelectionRepository) Toggle(_ context.Context, userID string, productID int64) (bool, error) {
	if !r.products.exists(productID) {
		return false, fmt.Errorf("product %d: %w", productID, common.ErrNotFound)
	}
	if !r.users.exists(userID) {
		return false, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}

	shard := r.shardFor(userID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	set := shard.byUser[userID]
	if set == nil {
		set = make(map[int64]model.Selection)
		shard.byUser[userID] = set
	}
	if _, ok := set[productID]; ok {
		delete(set, productID)
		return false, nil
	}
	set[productID] = model.Selection{UserID: userID, ProductID: productID, CreatedAt: time.Now()}
	return true, nil
}

func (r *SelectionRepository) Clear(_ context.Context, userID string) error {
	shard := r.shardFor(userID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.byUser, userID)
	return nil
}

func (r *SelectionRepository) IsSelectedBy(_ context.Context, productID int64, userID string) (bool, error) {
	shard := r.shardFor(userID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	_, ok := shard.byUser[userID][productID]
	return ok, nil
}

func (r *SelectionRepository) SelectorsOf(ctx context.Context, productID int64) ([]model.User, error) {
	var userIDs []string
	for _, shard := range r.shards {
		shard.mu.Lock()
		for userID, set := range shard.byUser {
			if _, ok := set[productID]; ok {
				userIDs = append(userIDs, userID)
			}
		}
		shard.mu.Unlock()
	}

	users := make([]model.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := r.users.FindByID(ctx, id)
		if err != nil {
			// Edge owner vanished between the scan and the lookup;
			// skip rather than fail the whole read.
			continue
		}
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Username != users[j].Username {
			return users[i].Username < users[j].Username
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}
