package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Pages
	r.HandleFunc("/api/page", deps.PageHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/page", deps.PageHandler.Create).Methods("POST")
	r.HandleFunc("/api/page/{id}", deps.PageHandler.Update).Methods("PUT")
	r.HandleFunc("/api/page/{id}", deps.PageHandler.Delete).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.DeleteAll).Methods("DELETE")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Fixed expenses
	r.HandleFunc("/api/fixed-expense", deps.FixedExpenseHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/fixed-expense", deps.FixedExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/fixed-expense/{id}", deps.FixedExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/fixed-expense/{id}", deps.FixedExpenseHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/fixed-expense/{id}/price-history/reset", deps.FixedExpenseHandler.ResetHistory).Methods("POST")

	// Settings and owner profiles
	r.HandleFunc("/api/settings", deps.SettingsHandler.Get).Methods("GET")
	r.HandleFunc("/api/settings", deps.SettingsHandler.Update).Methods("PUT")
	r.HandleFunc("/api/settings/owner", deps.SettingsHandler.GetProfiles).Methods("GET")
	r.HandleFunc("/api/settings/owner", deps.SettingsHandler.CreateProfile).Methods("POST")
	r.HandleFunc("/api/settings/owner/{id}", deps.SettingsHandler.UpdateProfile).Methods("PUT")
	r.HandleFunc("/api/settings/owner/{id}", deps.SettingsHandler.DeleteOwner).Methods("DELETE")
	r.HandleFunc("/api/settings/owner/{id}/rename", deps.SettingsHandler.RenameOwner).Methods("POST")

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetSummary).Methods("GET")

	// Backup
	r.HandleFunc("/api/backup/export", deps.BackupHandler.Export).Methods("GET")
	r.HandleFunc("/api/backup/import", deps.BackupHandler.Import).Methods("POST")

	// Sheets mirror
	r.HandleFunc("/api/sheets/sync", deps.SheetsHandler.Sync).Methods("POST")
}
