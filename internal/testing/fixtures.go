package testing

import (
	"time"

	"github.com/aristath/folio/internal/domain"
)

// NewPositionFixtures returns a small diversified set of holdings
func NewPositionFixtures() []domain.Position {
	return []domain.Position{
		{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology", AssetType: domain.AssetTypeStock, Quantity: 10, CostBasis: 150, CurrentPrice: 190},
		{Symbol: "MSFT", Name: "Microsoft Corporation", Sector: "Technology", AssetType: domain.AssetTypeStock, Quantity: 5, CostBasis: 300, CurrentPrice: 410},
		{Symbol: "JNJ", Name: "Johnson & Johnson", Sector: "Healthcare", AssetType: domain.AssetTypeStock, Quantity: 8, CostBasis: 160, CurrentPrice: 155},
		{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Sector: "Broad Market", AssetType: domain.AssetTypeETF, Quantity: 20, CostBasis: 200, CurrentPrice: 240},
		{Symbol: "BND", Name: "Vanguard Total Bond Market ETF", Sector: "Fixed Income", AssetType: domain.AssetTypeBond, Quantity: 30, CostBasis: 75, CurrentPrice: 72},
		{Symbol: "CASH", Name: "Cash", Sector: "Cash", AssetType: domain.AssetTypeCash, Quantity: 2500, CostBasis: 1, CurrentPrice: 1},
	}
}

// NewTransactionFixtures returns a ledger spanning two months of activity
func NewTransactionFixtures() []domain.Transaction {
	day := func(s string) time.Time {
		d, _ := time.Parse(domain.DateLayout, s)
		return d
	}
	return []domain.Transaction{
		{ID: "tx-1", Date: day("2024-01-05"), Symbol: "AAPL", Type: domain.TransactionTypeBuy, Quantity: 10, Price: 150, Total: 1500, Fees: 1},
		{ID: "tx-2", Date: day("2024-01-12"), Symbol: "MSFT", Type: domain.TransactionTypeBuy, Quantity: 5, Price: 300, Total: 1500, Fees: 1},
		{ID: "tx-3", Date: day("2024-02-01"), Symbol: "AAPL", Type: domain.TransactionTypeDividend, Quantity: 0, Price: 0, Total: 24},
		{ID: "tx-4", Date: day("2024-02-15"), Symbol: "AAPL", Type: domain.TransactionTypeSell, Quantity: 2, Price: 180, Total: 360, Fees: 1},
		{ID: "tx-5", Date: day("2024-02-20"), Symbol: "JNJ", Type: domain.TransactionTypeBuy, Quantity: 8, Price: 160, Total: 1280},
	}
}
