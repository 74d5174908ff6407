package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateTransaction indica violação de unicidade do transaction_number
	ErrDuplicateTransaction = errors.New("transaction_number already exists")

	// ErrTransactionNotFound indica que nenhum registro corresponde ao identificador
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Repository define a interface para operações de banco de dados de transações
type Repository interface {
	// Create insere uma nova transação e popula o identificador gerado
	Create(ctx context.Context, tx *Transaction) error

	// GetByID busca por ObjectID ou, em fallback, por transaction_number
	GetByID(ctx context.Context, id string) (*Transaction, error)

	// Update aplica uma atualização parcial ($set) e retorna se algo mudou
	Update(ctx context.Context, id string, updates bson.M) (bool, error)

	// List retorna transações paginadas, mais recentes primeiro
	List(ctx context.Context, page, limit int, filters bson.M) (*TransactionPage, error)
}

// TransactionPage representa uma página de resultados de listagem
type TransactionPage struct {
	Transactions []*Transaction
	Page         int
	Limit        int
	Total        int64
	Pages        int
}

// MongoTransactionRepository implementa Repository usando MongoDB
type MongoTransactionRepository struct {
	collection *mongo.Collection
}

// NewMongoTransactionRepository cria uma nova instância de MongoTransactionRepository
func NewMongoTransactionRepository(collection *mongo.Collection) Repository {
	return &MongoTransactionRepository{
		collection: collection,
	}
}

// EnsureIndexes cria o índice único de transaction_number.
// O índice é o único controle de concorrência entre criações simultâneas.
func EnsureIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction_number index: %w", err)
	}
	return nil
}

// Create insere a transação, atribuindo created_at quando ausente
func (r *MongoTransactionRepository) Create(ctx context.Context, tx *Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, tx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateTransaction, tx.TransactionNumber)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid
	}
	return nil
}

// GetByID tenta primeiro o _id (quando o input é um ObjectID válido) e em
// seguida o transaction_number. Input malformado não é erro, apenas fallback.
func (r *MongoTransactionRepository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction

	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&tx)
		if err == nil {
			return &tx, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to get transaction: %w", err)
		}
	}

	err := r.collection.FindOne(ctx, bson.M{"transaction_number": id}).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

// Update aplica $set nos campos informados, marcando updated_at
func (r *MongoTransactionRepository) Update(ctx context.Context, id string, updates bson.M) (bool, error) {
	updates["updated_at"] = time.Now()

	filter := bson.M{"transaction_number": id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter = bson.M{"_id": oid}
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updates})
	if err != nil {
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, ErrTransactionNotFound
	}
	return result.ModifiedCount > 0, nil
}

// List retorna transações ordenadas por created_at decrescente com paginação
func (r *MongoTransactionRepository) List(ctx context.Context, page, limit int, filters bson.M) (*TransactionPage, error) {
	if filters == nil {
		filters = bson.M{}
	}

	skip := int64((page - 1) * limit)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filters, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	transactions := make([]*Transaction, 0, limit)
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	return &TransactionPage{
		Transactions: transactions,
		Page:         page,
		Limit:        limit,
		Total:        total,
		Pages:        pageCount(total, limit),
	}, nil
}

// pageCount calcula o total de páginas por divisão com arredondamento para cima
func pageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
