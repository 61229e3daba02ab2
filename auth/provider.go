package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type adminDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// MongoProvider verifies administrators stored in the admins collection.
type MongoProvider struct {
	admins *mongo.Collection
}

func NewMongoProvider(database *mongo.Database) *MongoProvider {
	return &MongoProvider{admins: database.Collection("admins")}
}

func (p *MongoProvider) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Identity{}, ErrInvalidCredentials
	}
	var admin adminDoc
	if err := p.admins.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("lookup admin: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: admin.ID.Hex(), Email: admin.Email}, nil
}

// EnsureAdmin inserts the bootstrap administrator unless the email is taken.
func (p *MongoProvider) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	err := p.admins.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return false, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	_, err = p.admins.InsertOne(ctx, adminDoc{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("insert admin: %w", err)
	}
	return true, nil
}

// MemoryProvider keeps administrators in process.
type MemoryProvider struct {
	mu     sync.RWMutex
	hashes map[string]string
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{hashes: make(map[string]string)}
}

func (p *MemoryProvider) Add(email, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.hashes[normalizeEmail(email)] = hash
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) Authenticate(_ context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)
	p.mu.RLock()
	hash, ok := p.hashes[email]
	p.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: "admin:" + email, Email: email}, nil
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
