package repositories

import (
	"sync"

	"gorm.io/gorm"
)

// TxRepositories bundles the repositories bound to one atomic scope.
type TxRepositories struct {
	Products ProductRepository
	Orders   OrderRepository
	Carts    CartRepository
}

// UnitOfWork runs a function against repositories sharing a single
// transaction. If fn returns an error every write made through the bound
// repositories is rolled back. The order commit is the one caller that
// needs this: stock decrements across several products, the order insert
// and the cart clear must land or vanish together.
type UnitOfWork interface {
	Execute(fn func(tx TxRepositories) error) error
}

// GORMUnitOfWork implements UnitOfWork over a gorm database transaction.
type GORMUnitOfWork struct {
	db *gorm.DB
}

// NewGORMUnitOfWork creates a new instance of GORMUnitOfWork.
func NewGORMUnitOfWork(db *gorm.DB) *GORMUnitOfWork {
	return &GORMUnitOfWork{
		db: db,
	}
}

// Execute wraps fn in a database transaction with repositories bound to it.
func (u *GORMUnitOfWork) Execute(fn func(tx TxRepositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(TxRepositories{
			Products: NewGORMProductRepository(tx),
			Orders:   NewGORMOrderRepository(tx),
			Carts:    NewGORMCartRepository(tx),
		})
	})
}

// MockUnitOfWork implements UnitOfWork over the in-memory repositories.
// Commits are serialized under one lock and the repositories' state is
// snapshotted before fn runs, so a failure restores everything — the same
// all-or-nothing contract as the database transaction.
type MockUnitOfWork struct {
	Products *MockProductRepository
	Orders   *MockOrderRepository
	Carts    *MockCartRepository
	mu       sync.Mutex
}

// NewMockUnitOfWork creates a MockUnitOfWork over the given mocks.
func NewMockUnitOfWork(products *MockProductRepository, orders *MockOrderRepository, carts *MockCartRepository) *MockUnitOfWork {
	return &MockUnitOfWork{
		Products: products,
		Orders:   orders,
		Carts:    carts,
	}
}

// Execute runs fn atomically against the in-memory state. Concurrent
// commits are fully serialized so a rollback never clobbers another
// commit's writes.
func (u *MockUnitOfWork) Execute(fn func(tx TxRepositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	productSnap := u.Products.snapshot()
	orderSnap := u.Orders.snapshot()
	cartSnap := u.Carts.snapshot()

	err := fn(TxRepositories{Products: u.Products, Orders: u.Orders, Carts: u.Carts})
	if err != nil {
		u.Products.restore(productSnap)
		u.Orders.restore(orderSnap)
		u.Carts.restore(cartSnap)
		return err
	}
	return nil
}
