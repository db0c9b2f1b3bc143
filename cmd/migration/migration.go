// Command migration backfills template ids onto legacy scale records imported
// from the spreadsheet era. Records whose scale identifier cannot be matched
// unambiguously are left untouched and reported for manual review.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"mindhub-service/internal/app/config"
	"mindhub-service/internal/app/drivers/database"
	"mindhub-service/internal/app/drivers/logger"
	"mindhub-service/internal/app/services/core/mapping"
	"mindhub-service/internal/app/services/core/templates"
	"mindhub-service/internal/pkg/constvars"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

type legacyDocument struct {
	ID              interface{} `bson:"_id"`
	ScaleIdentifier string      `bson:"scaleIdentifier"`
	ItemCount       int         `bson:"itemCount"`
	TemplateID      string      `bson:"templateId,omitempty"`
}

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	dir := flag.String("dir", internalConfig.App.TemplateSourceDir, "directory containing scale template JSON files")
	dryRun := flag.Bool("dry-run", false, "resolve and report without writing")
	flag.Parse()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	store := templates.NewTemplateStore(zapLogger)
	loaded, loadErrors, err := store.LoadAll(*dir)
	if err != nil {
		log.WithError(err).Fatal("Cannot load scale templates")
	}
	if len(loadErrors) > 0 {
		log.Fatalf("%d template file(s) failed validation; fix the catalog before migrating", len(loadErrors))
	}

	mapper := mapping.NewMapper(loaded)

	mongoClient := database.NewMongoDB(driverConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	defer mongoClient.Disconnect(ctx)

	collection := mongoClient.Database(driverConfig.MongoDB.DbName).Collection(constvars.MongoCollectionLegacyRecords)

	cursor, err := collection.Find(ctx, bson.M{"templateId": bson.M{"$exists": false}})
	if err != nil {
		log.WithError(err).Fatal("Cannot query legacy records")
	}
	defer cursor.Close(ctx)

	var resolved, ambiguous int
	for cursor.Next(ctx) {
		var doc legacyDocument
		if err := cursor.Decode(&doc); err != nil {
			log.WithError(err).Fatal("Cannot decode legacy record")
		}

		template := mapper.Resolve(mapping.LegacyRecord{
			ScaleIdentifier: doc.ScaleIdentifier,
			ItemCount:       doc.ItemCount,
		})
		if template == nil {
			ambiguous++
			log.WithFields(logrus.Fields{
				"record":     doc.ID,
				"identifier": doc.ScaleIdentifier,
				"item_count": doc.ItemCount,
			}).Warn("No unambiguous template match; skipping")
			continue
		}

		resolved++
		if *dryRun {
			log.Infof("Would map record %v to template %s", doc.ID, template.ID)
			continue
		}

		_, err := collection.UpdateOne(ctx,
			bson.M{"_id": doc.ID},
			bson.M{"$set": bson.M{"templateId": template.ID, "migratedAt": time.Now().UTC()}},
		)
		if err != nil {
			log.WithError(err).Fatalf("Cannot update legacy record %v", doc.ID)
		}
	}
	if err := cursor.Err(); err != nil {
		log.WithError(err).Fatal("Cursor error while iterating legacy records")
	}

	log.Infof("Migration finished: %d resolved, %d left for manual review", resolved, ambiguous)
	if ambiguous > 0 {
		os.Exit(2)
	}
}
