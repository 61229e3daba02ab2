package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zayro/db"
	"zayro/models"
)

type jobDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	models.Job `bson:",inline"`
}

type applicationDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	models.Application `bson:",inline"`
}

// Mongo keeps jobs and applications in two collections of one database.
type Mongo struct {
	jobs         *mongo.Collection
	applications *mongo.Collection
	now          func() time.Time
}

func NewMongo(database *mongo.Database) *Mongo {
	return &Mongo{
		jobs:         database.Collection(JobsCollection),
		applications: database.Collection(ApplicationsCollection),
		now:          time.Now,
	}
}

func (s *Mongo) ListJobs(ctx context.Context) ([]models.Job, error) {
	cursor, err := s.jobs.Find(ctx, bson.M{}, db.OptionsFindLatest())
	if err != nil {
		return nil, unavailable("list jobs", err)
	}
	defer cursor.Close(ctx)

	var docs []jobDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode jobs", err)
	}
	jobs := make([]models.Job, 0, len(docs))
	for _, d := range docs {
		jobs = append(jobs, d.toJob())
	}
	return jobs, nil
}

func (s *Mongo) GetJob(ctx context.Context, id string) (models.Job, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Job{}, false, nil
	}
	var d jobDoc
	if err := s.jobs.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Job{}, false, nil
		}
		return models.Job{}, false, unavailable("get job", err)
	}
	return d.toJob(), true, nil
}

func (s *Mongo) CreateJob(ctx context.Context, fields models.JobFields) (models.Job, error) {
	d := jobDoc{
		ID:  primitive.NewObjectID(),
		Job: applyFields(models.Job{CreatedAt: s.now().UTC()}, fields),
	}
	if _, err := s.jobs.InsertOne(ctx, d); err != nil {
		return models.Job{}, unavailable("insert job", err)
	}
	return d.toJob(), nil
}

func (s *Mongo) UpdateJob(ctx context.Context, id string, fields models.JobFields) (models.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Job{}, ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d jobDoc
	err = s.jobs.FindOneAndUpdate(ctx, bson.M{"_id": oid}, jobUpdate(fields, s.now().UTC()), opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Job{}, ErrNotFound
		}
		return models.Job{}, unavailable("update job", err)
	}
	return d.toJob(), nil
}

func (s *Mongo) DeleteJob(ctx context.Context, id string) error {
	return deleteByID(ctx, s.jobs, id)
}

func (s *Mongo) ListApplications(ctx context.Context) ([]models.Application, error) {
	cursor, err := s.applications.Find(ctx, bson.M{}, db.OptionsFindLatest())
	if err != nil {
		return nil, unavailable("list applications", err)
	}
	defer cursor.Close(ctx)

	var docs []applicationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode applications", err)
	}
	apps := make([]models.Application, 0, len(docs))
	for _, d := range docs {
		apps = append(apps, d.toApplication())
	}
	return apps, nil
}

func (s *Mongo) CreateApplication(ctx context.Context, app models.Application) (models.Application, error) {
	app.CreatedAt = s.now().UTC()
	d := applicationDoc{ID: primitive.NewObjectID(), Application: app}
	if _, err := s.applications.InsertOne(ctx, d); err != nil {
		return models.Application{}, unavailable("insert application", err)
	}
	return d.toApplication(), nil
}

func (s *Mongo) DeleteApplication(ctx context.Context, id string) error {
	return deleteByID(ctx, s.applications, id)
}

func (s *Mongo) Ping(ctx context.Context) error {
	if err := s.jobs.Database().Client().Ping(ctx, nil); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return unavailable("delete from "+coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// jobUpdate replaces the form fields and stamps updatedAt. A posting without a
// duration loses any stored window.
func jobUpdate(fields models.JobFields, now time.Time) bson.M {
	f := fields.Normalized()
	set := bson.M{
		"title":       f.Title,
		"department":  f.Department,
		"location":    f.Location,
		"type":        f.Type,
		"description": f.Description,
		"hasDuration": f.HasDuration,
		"updatedAt":   now,
	}
	update := bson.M{"$set": set}
	if f.HasDuration {
		set["startDate"] = f.StartDate
		set["endDate"] = f.EndDate
	} else {
		update["$unset"] = bson.M{"startDate": "", "endDate": ""}
	}
	return update
}

func (d jobDoc) toJob() models.Job {
	j := d.Job
	j.ID = d.ID.Hex()
	return j
}

func (d applicationDoc) toApplication() models.Application {
	a := d.Application
	a.ID = d.ID.Hex()
	return a
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
