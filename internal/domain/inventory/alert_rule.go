package inventory

import "fmt"

// EvaluateAlert applies the low-stock rule to a single quantity change.
// An alert fires only when stock crosses downward from above minLevel to at
// or below it. Increases, decreases that stay above the threshold and
// decreases that were already at or below it yield no alert.
func EvaluateAlert(oldStock, newStock, minLevel int) (AlertType, bool) {
	if oldStock <= minLevel || newStock > minLevel {
		return "", false
	}
	if newStock == 0 {
		return AlertTypeOutOfStock, true
	}
	return AlertTypeLowStock, true
}

// AlertMessage renders the user-facing alert text.
func AlertMessage(productName string, alertType AlertType, newStock, minLevel int) string {
	var state string
	switch alertType {
	case AlertTypeOutOfStock:
		state = "out of stock"
	case AlertTypeReordered:
		state = "reordered"
	default:
		state = "running low on stock"
	}
	return fmt.Sprintf("Product '%s' is %s. Current quantity: %d, Minimum level: %d",
		productName, state, newStock, minLevel)
}
