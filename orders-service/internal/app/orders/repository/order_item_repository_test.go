package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderItemRepositoryTestSuite тестовый suite для PostgreSQL repository
type OrderItemRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  OrderItemRepository
	sqlDB *sql.DB
}

func TestOrderItemRepositorySuite(t *testing.T) {
	suite.Run(t, new(OrderItemRepositoryTestSuite))
}

func (s *OrderItemRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewOrderItemRepository(s.db)
}

func (s *OrderItemRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== DetachProduct Tests =====================

func (s *OrderItemRepositoryTestSuite) TestDetachProduct_Success() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "order_items" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	s.mock.ExpectCommit()

	detached, err := s.repo.DetachProduct(ctx, 42)

	s.NoError(err)
	s.Equal(int64(3), detached)
	s.NoError(s.mock.ExpectationsWereMet())
}

// Товар ни разу не заказывали - обнулять нечего, это не ошибка
func (s *OrderItemRepositoryTestSuite) TestDetachProduct_NoItems() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "order_items" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	detached, err := s.repo.DetachProduct(ctx, 42)

	s.NoError(err)
	s.Equal(int64(0), detached)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderItemRepositoryTestSuite) TestDetachProduct_DBError() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "order_items" SET`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	_, err := s.repo.DetachProduct(ctx, 42)

	s.Error(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== DetachVariant Tests =====================

func (s *OrderItemRepositoryTestSuite) TestDetachVariant_Success() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "order_items" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	detached, err := s.repo.DetachVariant(ctx, 7)

	s.NoError(err)
	s.Equal(int64(1), detached)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByOrderID Tests =====================

func (s *OrderItemRepositoryTestSuite) TestGetByOrderID_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "variant_id", "quantity", "price"}).
		AddRow(int64(1), int64(10), int64(42), nil, 2, "49.90").
		AddRow(int64(2), int64(10), nil, int64(7), 1, "120.00")

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items" WHERE order_id = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	items, err := s.repo.GetByOrderID(ctx, 10)

	s.NoError(err)
	s.Len(items, 2)
	s.Equal(int64(42), *items[0].ProductID)
	s.Nil(items[0].VariantID)
	s.Nil(items[1].ProductID)
	s.Equal(int64(7), *items[1].VariantID)
	s.NoError(s.mock.ExpectationsWereMet())
}
