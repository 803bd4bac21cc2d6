package repository

import (
	"context"
	"errors"
	"time"

	"github.com/writingportfolio/backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// contactDocument is the stored shape of a contact. The driver assigns _id;
// it is never read back or exposed.
type contactDocument struct {
	ID        string     `bson:"id"`
	Name      string     `bson:"name"`
	Email     string     `bson:"email"`
	Service   string     `bson:"service"`
	Message   string     `bson:"message"`
	Status    string     `bson:"status"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty"`
}

func toContactDocument(c *model.Contact) contactDocument {
	return contactDocument{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Service:   c.Service,
		Message:   c.Message,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (d *contactDocument) toModel() *model.Contact {
	c := &model.Contact{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Service:   d.Service,
		Message:   d.Message,
		Status:    model.ContactStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.UpdatedAt != nil {
		t := d.UpdatedAt.UTC()
		c.UpdatedAt = &t
	}
	return c
}

// contactFilterDoc translates a ContactFilter into a MongoDB query document.
func contactFilterDoc(f model.ContactFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if !f.CreatedSince.IsZero() {
		q["created_at"] = bson.M{"$gte": f.CreatedSince}
	}
	return q
}

// MongoContactRepository is the MongoDB implementation of ContactRepository.
type MongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository creates a MongoContactRepository over the given collection.
func NewMongoContactRepository(coll *mongo.Collection) *MongoContactRepository {
	return &MongoContactRepository{coll: coll}
}

var _ ContactRepository = (*MongoContactRepository)(nil)

func (r *MongoContactRepository) Insert(ctx context.Context, c *model.Contact) error {
	_, err := r.coll.InsertOne(ctx, toContactDocument(c))
	return err
}

func (r *MongoContactRepository) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	var doc contactDocument
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(opts.Skip)).
		SetLimit(int64(opts.Limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	contacts := make([]*model.Contact, 0, len(docs))
	for i := range docs {
		contacts = append(contacts, docs[i].toModel())
	}
	return contacts, nil
}

func (r *MongoContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus, updatedAt time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": updatedAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoContactRepository) Count(ctx context.Context, filter model.ContactFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, contactFilterDoc(filter))
}
