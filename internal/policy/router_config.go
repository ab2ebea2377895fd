package policy

import (
	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/audit"
	"github.com/kwo0two/rentmanagerpro/internal/gate"
	"github.com/kwo0two/rentmanagerpro/internal/handlers"
	"github.com/kwo0two/rentmanagerpro/internal/services"
)

// RouterConfig holds the configured handlers and the authorization gate.
type RouterConfig struct {
	Gate *gate.Gate[uint]

	AuthHandler       *handlers.AuthHandler
	BuildingHandler   *handlers.BuildingHandler
	LeaseHandler      *handlers.LeaseHandler
	PaymentHandler    *handlers.PaymentHandler
	AdjustmentHandler *handlers.AdjustmentHandler
	LedgerHandler     *handlers.LedgerHandler
	DashboardHandler  *handlers.DashboardHandler
	BackupHandler     *handlers.BackupHandler

	LedgerService *services.LedgerService
	Audit         *audit.Recorder
}

// NewRouterConfig wires the gate, policies and all handlers together.
func NewRouterConfig(db *gorm.DB) *RouterConfig {
	g := gate.NewGate[uint]()
	ownership := NewOwnershipPolicy()
	for _, resource := range []string{"building", "unit", "lease", "payment", "adjustment"} {
		g.Register(resource, ownership)
	}

	recorder := audit.NewRecorder(db)

	return &RouterConfig{
		Gate:              g,
		AuthHandler:       handlers.NewAuthHandler(db),
		BuildingHandler:   handlers.NewBuildingHandler(db, recorder),
		LeaseHandler:      handlers.NewLeaseHandler(db, recorder),
		PaymentHandler:    handlers.NewPaymentHandler(db, recorder),
		AdjustmentHandler: handlers.NewAdjustmentHandler(db, recorder),
		LedgerHandler:     handlers.NewLedgerHandler(db),
		DashboardHandler:  handlers.NewDashboardHandler(db, recorder),
		BackupHandler:     handlers.NewBackupHandler(db, recorder),
		LedgerService:     services.NewLedgerService(db),
		Audit:             recorder,
	}
}
