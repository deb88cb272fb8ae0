package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/diarynotes/internal/telemetry/tracing"
)

var _ Repo = (*MongoRepo)(nil)

type mongoNote struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (n mongoNote) toNote() *Note {
	return &Note{
		ID:        n.ID.Hex(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}
}

type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(coll *mongo.Collection) *MongoRepo {
	return &MongoRepo{
		coll: coll,
	}
}

// EnsureIndexes creates the created_at index if it is missing.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("created_at_1"),
	})
	if err != nil {
		return fmt.Errorf("create created_at index: %w", err)
	}
	return nil
}

func (r *MongoRepo) List(ctx context.Context) (_ []*Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.mongo.list")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find notes: %w", err)
	}

	var docs []mongoNote
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]*Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.toNote())
	}
	return notes, nil
}

func (r *MongoRepo) Get(ctx context.Context, id string) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.mongo.get")
	defer func() {
		if err != nil && !errors.Is(err, ErrNoteNotFound) {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}

	var doc mongoNote
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toNote(), nil
}

func (r *MongoRepo) Add(ctx context.Context, note *Note) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.mongo.add")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	// mongo keeps millisecond precision, return what a later read would see
	doc := mongoNote{
		ID:        primitive.NewObjectID(),
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.Truncate(time.Millisecond),
		UpdatedAt: note.UpdatedAt.Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	return doc.toNote(), nil
}

func (r *MongoRepo) Update(ctx context.Context, id string, input NoteInput, updatedAt time.Time) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.mongo.update")
	defer func() {
		if err != nil && !errors.Is(err, ErrNoteNotFound) {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":      input.Title,
		"content":    input.Content,
		"updated_at": updatedAt.Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoNote
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toNote(), nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.mongo.delete")
	defer func() {
		if err != nil && !errors.Is(err, ErrNoteNotFound) {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoteNotFound
	}

	var doc mongoNote
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapMongoErr(err)
	}
	return doc.toNote(), nil
}

func mapMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoteNotFound
	}
	return err
}
