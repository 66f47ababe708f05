package persistence

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/erp/lobapi/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSortOrder(t *testing.T) {
	for in, want := range map[string]string{
		"asc":                    "ASC",
		" ASC ":                  "ASC",
		"desc":                   "DESC",
		"":                       "DESC",
		"sideways":               "DESC",
		"ASC; DELETE FROM bills": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(in), "input %q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "maturity_date", ValidateSortField(" maturity_date ", FixedDepositSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", FixedDepositSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("Maturity_Date", FixedDepositSortFields, "created_at"))
	// a column of another table is not sortable here
	assert.Equal(t, "created_at", ValidateSortField("basic_monthly_salary", FixedDepositSortFields, "created_at"))

	for _, payload := range []string{
		"id; DROP TABLE hr_employees;--",
		`status"; DROP TABLE hr_employees;--`,
		"status--",
		"(SELECT 1)",
		"hire_date/**/",
		"hire_date\n;",
		"CASE WHEN 1=1 THEN hire_date END",
	} {
		assert.Equal(t, "created_at", ValidateSortField(payload, EmployeeSortFields, "created_at"), "payload %q", payload)
	}
}

var createTable = regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)
var columnLine = regexp.MustCompile(`(?m)^\s+(\w+)\s`)

func schemaColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	files, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)

	tables := map[string]map[string]bool{}
	for _, name := range files {
		raw, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		for _, m := range createTable.FindAllStringSubmatch(string(raw), -1) {
			cols := map[string]bool{}
			for _, c := range columnLine.FindAllStringSubmatch(m[2], -1) {
				cols[strings.ToLower(c[1])] = true
			}
			tables[m[1]] = cols
		}
	}
	return tables
}

func TestSortFields_MatchSchema(t *testing.T) {
	tables := schemaColumns(t)
	sortable := map[string]map[string]bool{
		"chart_of_accounts":       ChartOfAccountSortFields,
		"accounting_periods":      AccountingPeriodSortFields,
		"bills":                   BillSortFields,
		"hr_employees":            EmployeeSortFields,
		"hr_leave_requests":       LeaveRequestSortFields,
		"store_warehouses":        WarehouseSortFields,
		"store_suppliers":         SupplierSortFields,
		"store_serial_numbers":    SerialNumberSortFields,
		"store_stock_adjustments": StockAdjustmentSortFields,
		"mf_fixed_deposits":       FixedDepositSortFields,
		"mf_collection_cases":     CollectionCaseSortFields,
		"messaging_conversations": ConversationSortFields,
	}

	for table, fields := range sortable {
		t.Run(table, func(t *testing.T) {
			cols, ok := tables[table]
			require.True(t, ok, "no CREATE TABLE for %s", table)
			for common := range CommonSortFields {
				assert.True(t, fields[common], "%s must sort by %s", table, common)
			}
			for field := range fields {
				assert.True(t, cols[field], "%s has no column %s", table, field)
			}
		})
	}
}
