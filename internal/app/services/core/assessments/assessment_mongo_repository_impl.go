package assessments

import (
	"context"
	"time"

	"mindhub-service/internal/app/contracts"
	"mindhub-service/internal/app/models"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AssessmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewAssessmentMongoRepository(db *mongo.Client, dbName string) contracts.AssessmentRepository {
	return &AssessmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionAssessments),
	}
}

func (repo *AssessmentMongoRepository) Insert(ctx context.Context, assessment *models.Assessment) error {
	_, err := repo.Collection.InsertOne(ctx, assessment)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *AssessmentMongoRepository) FindByID(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := repo.Collection.FindOne(ctx, bson.M{"_id": assessmentID}).Decode(&assessment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &assessment, nil
}

// UpdateGuarded replaces the document only while its stored status still
// equals expected. MatchedCount carries the compare-and-swap outcome.
func (repo *AssessmentMongoRepository) UpdateGuarded(ctx context.Context, assessment *models.Assessment, expected models.AssessmentStatus) (bool, error) {
	filter := bson.M{
		"_id":    assessment.ID,
		"status": expected,
	}
	result, err := repo.Collection.ReplaceOne(ctx, filter, assessment)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

// MergeResponses writes each submitted item under its own responses.<key>
// path so concurrent submissions touching different items both survive. The
// status filter keeps finalized assessments immutable.
func (repo *AssessmentMongoRepository) MergeResponses(ctx context.Context, assessmentID string, responses map[string]models.ItemResponse, allowed []models.AssessmentStatus) (bool, error) {
	set := bson.M{
		"updatedAt": time.Now().UTC(),
	}
	for key, response := range responses {
		set["responses."+key] = response
	}

	filter := bson.M{
		"_id":    assessmentID,
		"status": bson.M{"$in": allowed},
	}
	result, err := repo.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}
