package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "tendril:"

// Collections stored by the backend. Each one is a hash of id to JSON record
// plus a list of ids in insertion order.
const (
	collTodos = "todos"
	collPosts = "posts"
	collUsers = "users"
)

// Backend implements ports.Backend using Redis.
type Backend struct {
	client *backend.Client
	prefix string
	prep   domain.Preparer
}

// Option configures a Backend.
type Option func(*Backend)

// WithPrefix sets the key prefix of every collection.
func WithPrefix(prefix string) Option {
	return func(b *Backend) {
		b.prefix = prefix
	}
}

// WithPreparer sets the source of ids and dates for new records.
func WithPreparer(p domain.Preparer) Option {
	return func(b *Backend) {
		b.prep = p
	}
}

// New creates a Redis backend with options.
func New(address, password string, db int, opts ...Option) *Backend {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis backend from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Backend {
	b := &Backend{
		client: client,
		prefix: defaultPrefix,
		prep:   domain.DefaultPreparer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) hashKey(coll string) string {
	return b.prefix + coll
}

func (b *Backend) indexKey(coll string) string {
	return b.prefix + coll + ":ids"
}

// Ping checks connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (b *Backend) Close() error {
	return b.client.Close()
}

// Seed appends fixtures, keeping their ids.
func (b *Backend) Seed(ctx context.Context, fx ports.Fixtures) error {
	pipe := b.client.TxPipeline()
	for _, t := range fx.Todos {
		if err := b.queueInsert(ctx, pipe, collTodos, t.ID, t); err != nil {
			return err
		}
	}
	for _, p := range fx.Posts {
		if err := b.queueInsert(ctx, pipe, collPosts, p.ID, p); err != nil {
			return err
		}
	}
	for _, u := range fx.Users {
		if err := b.queueInsert(ctx, pipe, collUsers, u.ID, u); err != nil {
			return err
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed redis: %w", err)
	}
	return nil
}

// ListTodos returns the todos matching filter.
func (b *Backend) ListTodos(ctx context.Context, filter domain.Filter) ([]domain.Todo, error) {
	all, err := list[domain.Todo](ctx, b, collTodos)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Todo, 0, len(all))
	for _, t := range all {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddTodo stores a new active todo.
func (b *Backend) AddTodo(ctx context.Context, text string) (domain.Todo, error) {
	todo := domain.Todo{ID: b.prep.ID(), Text: text}
	if err := b.insert(ctx, collTodos, todo.ID, todo); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

// ToggleTodo flips the completed flag of a todo. The read-modify-write is
// guarded by WATCH so concurrent toggles are not lost.
func (b *Backend) ToggleTodo(ctx context.Context, id string) (domain.Todo, error) {
	key := b.hashKey(collTodos)
	var todo domain.Todo

	txf := func(tx *backend.Tx) error {
		val, err := tx.HGet(ctx, key, id).Result()
		if err != nil {
			if errors.Is(err, backend.Nil) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := json.Unmarshal([]byte(val), &todo); err != nil {
			return fmt.Errorf("failed to unmarshal todo: %w", err)
		}
		todo.Completed = !todo.Completed
		data, err := json.Marshal(todo)
		if err != nil {
			return fmt.Errorf("failed to marshal todo: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
			pipe.HSet(ctx, key, id, data)
			return nil
		})
		return err
	}

	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		err := b.client.Watch(ctx, txf, key)
		if errors.Is(err, backend.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Todo{}, err
			}
			return domain.Todo{}, fmt.Errorf("failed to toggle todo: %w", err)
		}
		return todo, nil
	}
	return domain.Todo{}, fmt.Errorf("failed to toggle todo %s: too much contention", id)
}

// ListPosts returns every post.
func (b *Backend) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return list[domain.Post](ctx, b, collPosts)
}

// AddPost stores a post, filling in id, date and reactions when missing.
func (b *Backend) AddPost(ctx context.Context, post domain.Post) (domain.Post, error) {
	post = ports.CompletePost(b.prep, post)
	if err := b.insert(ctx, collPosts, post.ID, post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// ListUsers returns every user.
func (b *Backend) ListUsers(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, b, collUsers)
}

func (b *Backend) insert(ctx context.Context, coll, id string, v any) error {
	pipe := b.client.TxPipeline()
	if err := b.queueInsert(ctx, pipe, coll, id, v); err != nil {
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (b *Backend) queueInsert(ctx context.Context, pipe backend.Pipeliner, coll, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", coll, err)
	}
	pipe.HSet(ctx, b.hashKey(coll), id, data)
	pipe.RPush(ctx, b.indexKey(coll), id)
	return nil
}

func list[T any](ctx context.Context, b *Backend, coll string) ([]T, error) {
	ids, err := b.client.LRange(ctx, b.indexKey(coll), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", coll, err)
	}
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	vals, err := b.client.HMGet(ctx, b.hashKey(coll), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", coll, err)
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // index entry without record
		}
		var item T
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s record: %w", coll, err)
		}
		out = append(out, item)
	}
	return out, nil
}
