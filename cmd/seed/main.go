package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"advisor/internal/config"
	"advisor/internal/engine"
	"advisor/internal/model"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	outlineColl := db.Collection("outlines")

	now := time.Now()
	outline := model.Outline{
		ID:        "business-model-default",
		Name:      "Business Model Elicitation",
		Text:      engine.DefaultOutline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = outlineColl.InsertOne(ctx, outline)
	if err != nil {
		log.Fatalf("Failed to insert outline: %v", err)
	}

	fmt.Printf("Successfully created default outline '%s'\n", outline.Name)
}
