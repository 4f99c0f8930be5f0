// Star schema description of the warehouse. Used to brief text-generation
// models and to cross-check generated statements.
package database

type TableSchema struct {
	Name        string         `json:"name"`
	Columns     []ColumnSchema `json:"columns"`
	Description string         `json:"description"`
}

type ColumnSchema struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nullable    bool   `json:"nullable"`
	Description string `json:"description"`
}

var DatabaseSchema = []TableSchema{
	{
		Name:        "dim_users",
		Description: "Customer dimension",
		Columns: []ColumnSchema{
			{Name: "user_id", Type: "integer", Nullable: false, Description: "Primary key"},
			{Name: "name", Type: "varchar(200)", Nullable: true, Description: "Customer name"},
			{Name: "email", Type: "varchar(150)", Nullable: true, Description: "Contact email"},
			{Name: "city", Type: "varchar(100)", Nullable: true, Description: "City of the customer"},
			{Name: "phone", Type: "varchar(50)", Nullable: true, Description: "Phone number"},
			{Name: "company", Type: "varchar(200)", Nullable: true, Description: "Company name"},
			{Name: "created_at", Type: "timestamp", Nullable: true, Description: "Load time"},
		},
	},
	{
		Name:        "dim_products",
		Description: "Product catalog dimension",
		Columns: []ColumnSchema{
			{Name: "product_id", Type: "integer", Nullable: false, Description: "Primary key"},
			{Name: "product_name", Type: "varchar(200)", Nullable: true, Description: "Product name"},
			{Name: "category", Type: "varchar(100)", Nullable: true, Description: "Electronics, Furniture, Kitchen or Office"},
			{Name: "price", Type: "numeric(10,2)", Nullable: true, Description: "List price"},
			{Name: "description", Type: "text", Nullable: true, Description: "Product description"},
			{Name: "created_at", Type: "timestamp", Nullable: true, Description: "Load time"},
		},
	},
	{
		Name:        "dim_date",
		Description: "Calendar dimension, date_id formatted YYYYMMDD",
		Columns: []ColumnSchema{
			{Name: "date_id", Type: "integer", Nullable: false, Description: "Primary key, YYYYMMDD"},
			{Name: "date", Type: "date", Nullable: true, Description: "Calendar date"},
			{Name: "year", Type: "integer", Nullable: true, Description: "Year"},
			{Name: "month", Type: "integer", Nullable: true, Description: "Month number"},
			{Name: "day", Type: "integer", Nullable: true, Description: "Day of month"},
			{Name: "quarter", Type: "integer", Nullable: true, Description: "Quarter 1-4"},
			{Name: "weekday", Type: "varchar(20)", Nullable: true, Description: "Weekday name"},
			{Name: "month_name", Type: "varchar(20)", Nullable: true, Description: "Month name"},
			{Name: "is_weekend", Type: "varchar(10)", Nullable: true, Description: "Yes or No"},
		},
	},
	{
		Name:        "fact_sales",
		Description: "Sales transactions referencing every dimension",
		Columns: []ColumnSchema{
			{Name: "sale_id", Type: "integer", Nullable: false, Description: "Primary key"},
			{Name: "user_id", Type: "integer", Nullable: false, Description: "Reference to dim_users"},
			{Name: "product_id", Type: "integer", Nullable: false, Description: "Reference to dim_products"},
			{Name: "date_id", Type: "integer", Nullable: false, Description: "Reference to dim_date"},
			{Name: "amount", Type: "numeric(10,2)", Nullable: true, Description: "Unit price paid"},
			{Name: "quantity", Type: "integer", Nullable: true, Description: "Units sold"},
			{Name: "total_amount", Type: "numeric(10,2)", Nullable: true, Description: "amount * quantity"},
			{Name: "created_at", Type: "timestamp", Nullable: true, Description: "Load time"},
		},
	},
}

// InvalidReferences are qualified names models tend to invent: these
// columns live on a dimension, not on the fact table.
var InvalidReferences = []string{
	"fact_sales.product_name",
	"fact_sales.name",
	"fact_sales.category",
}
