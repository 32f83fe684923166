package db

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/odm"
)

func InitPortfolioDB(ctx context.Context, mongo odm.MongoClient, dbName string) error {
	return odm.EnsureIndexes[DocumentModel](ctx, mongo, dbName)
}
