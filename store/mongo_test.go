package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zayro/models"
)

func TestJobUpdateUnsetsWindowWithoutDuration(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	f := models.DefaultJobFields()
	f.Title = "  Ops Lead "
	f.Department = models.DeptOperations

	update := jobUpdate(f, now)
	set := update["$set"].(bson.M)
	assert.Equal(t, "Ops Lead", set["title"])
	assert.Equal(t, now, set["updatedAt"])
	assert.NotContains(t, set, "startDate")
	assert.NotContains(t, set, "createdAt")
	assert.Equal(t, bson.M{"startDate": "", "endDate": ""}, update["$unset"])
}

func TestJobUpdateSetsWindowWithDuration(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	f := models.DefaultJobFields()
	f.Title = "Intern"
	f.HasDuration, f.StartDate, f.EndDate = true, &start, &end

	update := jobUpdate(f, time.Now())
	set := update["$set"].(bson.M)
	assert.Equal(t, &start, set["startDate"])
	assert.Equal(t, &end, set["endDate"])
	assert.NotContains(t, update, "$unset")
}

func TestDocsCarryHexIDs(t *testing.T) {
	oid := primitive.NewObjectID()
	job := jobDoc{ID: oid, Job: models.Job{Title: "Sales Rep"}}.toJob()
	assert.Equal(t, oid.Hex(), job.ID)

	app := applicationDoc{ID: oid, Application: models.Application{JobID: "j"}}.toApplication()
	assert.Equal(t, oid.Hex(), app.ID)
}
