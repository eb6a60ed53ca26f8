package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/novinsoft/signup-system/internal/core/domain"
)

const collectionRegistrations = "registrations"

// RegistrationRepository persists registrations as documents. No unique
// index exists on phone: duplicate signups from the same number are valid
// records, matching the schema this service inherited.
type RegistrationRepository struct {
	col *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{col: db.Collection(collectionRegistrations)}
}

// registrationDoc keeps the BSON shape identical to the documents already
// in the collection, with a real ObjectID as _id.
type registrationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Phone     string             `bson:"phone"`
	CreatedAt primitive.DateTime `bson:"createdAt"`
}

// Create inserts a new registration document and fills in r.ID.
func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := registrationDoc{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
		CreatedAt: primitive.NewDateTimeFromTime(reg.CreatedAt),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("%w: insert registration: %v", domain.ErrStorage, err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		reg.ID = oid.Hex()
	}
	return nil
}

// ListAll returns every registration ordered by createdAt descending, fully
// materialized so the export works from a stable snapshot.
func (r *RegistrationRepository) ListAll(ctx context.Context) ([]domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list registrations: %v", domain.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var out []domain.Registration
	for cur.Next(ctx) {
		var doc registrationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode registration: %v", domain.ErrStorage, err)
		}
		out = append(out, domain.Registration{
			ID:        doc.ID.Hex(),
			FirstName: doc.FirstName,
			LastName:  doc.LastName,
			Phone:     doc.Phone,
			CreatedAt: doc.CreatedAt.Time().UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate registrations: %v", domain.ErrStorage, err)
	}
	return out, nil
}

// EnsureIndexes creates the createdAt index backing the newest-first listing.
// Phone deliberately gets no unique index.
func (r *RegistrationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("%w: ensure indexes: %v", domain.ErrStorage, err)
	}
	return nil
}
