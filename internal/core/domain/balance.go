package domain

import "github.com/shopspring/decimal"

// CalculateBalance reduces a user's statements, in creation order, into a
// signed balance. Deposits add, withdrawals subtract, and transfer rows
// subtract when the owner is the original sender and add otherwise. A nil or
// empty sequence yields zero.
func CalculateBalance(ownerID string, statements []Statement) decimal.Decimal {
	balance := decimal.Zero
	for _, s := range statements {
		switch s.Type {
		case Deposit:
			balance = balance.Add(s.Amount)
		case Withdraw:
			balance = balance.Sub(s.Amount)
		case Transfer:
			if s.CounterpartyID != nil && *s.CounterpartyID == ownerID {
				balance = balance.Sub(s.Amount)
			} else {
				balance = balance.Add(s.Amount)
			}
		}
	}
	return balance
}
