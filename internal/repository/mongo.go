package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"lockdown-service/internal/config"
	"lockdown-service/internal/repository/model"
	"lockdown-service/internal/repository/registrytypes"
	"sync"
	"time"
)

const (
	databaseName = "lockdown-service"

	lockdownCollectionName = "lockdowns"
	settingsCollectionName = "lockdownSettings"
)

type mongoRepository struct {
	logger   *zap.SugaredLogger
	database *mongo.Database

	lockdownCollection *mongo.Collection
	settingsCollection *mongo.Collection
}

func NewMongoRepository(ctx context.Context, logger *zap.SugaredLogger, wg *sync.WaitGroup, cfg config.MongoDBConfig) (Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetRegistry(createCodecRegistry()))
	if err != nil {
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Errorw("failed to disconnect from mongo", "error", err)
		}
	}()

	database := client.Database(databaseName)
	return &mongoRepository{
		logger:             logger,
		database:           database,
		lockdownCollection: database.Collection(lockdownCollectionName),
		settingsCollection: database.Collection(settingsCollectionName),
	}, nil
}

func (m *mongoRepository) GetLockdowns(ctx context.Context, communityId string) ([]*model.Lockdown, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Oldest first: list position doubles as the removal index and the
	// underlying-state lookup scans in creation order.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := m.lockdownCollection.Find(ctx, bson.M{"communityId": communityId}, opts)
	if err != nil {
		return nil, err
	}

	var mongoResult []model.Lockdown
	err = cursor.All(ctx, &mongoResult)

	slice := make([]*model.Lockdown, len(mongoResult))
	for i := range mongoResult {
		slice[i] = &mongoResult[i]
	}

	return slice, err
}

func (m *mongoRepository) CreateLockdown(ctx context.Context, lockdown *model.Lockdown) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.lockdownCollection.InsertOne(ctx, lockdown)
	return err
}

func (m *mongoRepository) DeleteLockdown(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := m.lockdownCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("lockdown %s not found", id)
	}

	return nil
}

func (m *mongoRepository) GetLockdownSettings(ctx context.Context, communityId string) (*model.LockdownSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result model.LockdownSettings
	err := m.settingsCollection.FindOne(ctx, bson.M{"_id": communityId}).Decode(&result)
	if err != nil {
		// Settings are owned by the configuration collaborator; a missing
		// row just means the community runs on defaults.
		if err == mongo.ErrNoDocuments {
			return &model.LockdownSettings{CommunityId: communityId}, nil
		}
		return nil, err
	}

	return &result, nil
}

func createCodecRegistry() *bsoncodec.Registry {
	return bson.NewRegistryBuilder().
		RegisterTypeEncoder(registrytypes.UUIDType, bsoncodec.ValueEncoderFunc(registrytypes.UuidEncodeValue)).
		RegisterTypeDecoder(registrytypes.UUIDType, bsoncodec.ValueDecoderFunc(registrytypes.UuidDecodeValue)).
		Build()
}
