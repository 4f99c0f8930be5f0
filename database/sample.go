package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Schema creates the star schema. The statements are portable between
// sqlite and postgres.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS dim_users (
		user_id INTEGER PRIMARY KEY,
		name VARCHAR(200),
		email VARCHAR(150),
		city VARCHAR(100),
		phone VARCHAR(50),
		company VARCHAR(200),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS dim_products (
		product_id INTEGER PRIMARY KEY,
		product_name VARCHAR(200),
		category VARCHAR(100),
		price NUMERIC(10,2),
		description TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS dim_date (
		date_id INTEGER PRIMARY KEY,
		date DATE,
		year INTEGER,
		month INTEGER,
		day INTEGER,
		quarter INTEGER,
		weekday VARCHAR(20),
		month_name VARCHAR(20),
		is_weekend VARCHAR(10)
	)`,
	`CREATE TABLE IF NOT EXISTS fact_sales (
		sale_id INTEGER PRIMARY KEY,
		user_id INTEGER REFERENCES dim_users(user_id),
		product_id INTEGER REFERENCES dim_products(product_id),
		date_id INTEGER REFERENCES dim_date(date_id),
		amount NUMERIC(10,2),
		quantity INTEGER,
		total_amount NUMERIC(10,2),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

type SampleUser struct {
	ID                                int
	Name, Email, City, Phone, Company string
}

type SampleProduct struct {
	ID                          int
	Name, Category, Description string
	Price                       float64
}

type SampleDate struct {
	ID                        int
	Date                      time.Time
	Quarter                   int
	Weekday, MonthName, Weekend string
}

type SampleSale struct {
	ID, UserID, ProductID, DateID int
	Amount                        float64
	Quantity                      int
	Total                         float64
}

var SampleUsers = []SampleUser{
	{1, "Leanne Graham", "Sincere@april.biz", "Gwenborough", "1-770-736-8031 x56442", "Romaguera-Crona"},
	{2, "Ervin Howell", "Shanna@melissa.tv", "Wisokyburgh", "010-692-6593 x09125", "Deckow-Crist"},
	{3, "Clementine Bauch", "Nathan@yesenia.net", "McKenziehaven", "1-463-123-4447", "Romaguera-Jacobson"},
	{4, "Patricia Lebsack", "Julianne.OConner@kory.org", "South Elvis", "493-170-9623 x156", "Robel-Corkery"},
	{5, "Chelsey Dietrich", "Lucio_Hettinger@annie.ca", "Roscoeview", "(254)954-1289", "Keebler LLC"},
}

var SampleProducts = []SampleProduct{
	{1, "Laptop Pro", "Electronics", "High-performance laptop", 1299.99},
	{2, "Wireless Mouse", "Electronics", "Ergonomic wireless mouse", 29.99},
	{3, "Office Chair", "Furniture", "Comfortable office chair", 199.99},
	{4, "Coffee Mug", "Kitchen", "Ceramic coffee mug", 12.99},
	{5, "Notebook", "Office", "Spiral notebook", 5.99},
	{6, "Desk Lamp", "Furniture", "LED desk lamp", 45.99},
	{7, "Keyboard", "Electronics", "Mechanical keyboard", 79.99},
	{8, "Water Bottle", "Kitchen", "Stainless steel water bottle", 19.99},
	{9, "Monitor Stand", "Furniture", "Adjustable monitor stand", 39.99},
	{10, "Phone Case", "Electronics", "Protective phone case", 24.99},
}

var SampleDates = []SampleDate{
	{20240101, day(2024, 1, 1), 1, "Monday", "January", "No"},
	{20240115, day(2024, 1, 15), 1, "Monday", "January", "No"},
	{20240201, day(2024, 2, 1), 1, "Thursday", "February", "No"},
	{20240315, day(2024, 3, 15), 1, "Friday", "March", "No"},
	{20240420, day(2024, 4, 20), 2, "Saturday", "April", "Yes"},
}

var SampleSales = []SampleSale{
	{1, 2, 1, 20240101, 1299.99, 2, 2599.98},
	{2, 2, 7, 20240115, 79.99, 1, 79.99},
	{3, 2, 6, 20240201, 45.99, 5, 229.95},
	{4, 2, 2, 20240315, 29.99, 3, 89.97},
	{5, 5, 4, 20240420, 12.99, 1, 12.99},
	{6, 1, 8, 20240420, 19.99, 1, 19.99},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Seed creates the schema and replaces its contents with the sample data.
func Seed(ctx context.Context, s Seeder) error {
	for _, stmt := range Schema {
		if err := s.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	for _, table := range []string{"fact_sales", "dim_date", "dim_products", "dim_users"} {
		if err := s.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insertUser := insertStatement(s, "dim_users", "user_id", "name", "email", "city", "phone", "company")
	for _, u := range SampleUsers {
		if err := s.Exec(ctx, insertUser, u.ID, u.Name, u.Email, u.City, u.Phone, u.Company); err != nil {
			return fmt.Errorf("insert user %d: %w", u.ID, err)
		}
	}

	insertProduct := insertStatement(s, "dim_products", "product_id", "product_name", "category", "price", "description")
	for _, p := range SampleProducts {
		if err := s.Exec(ctx, insertProduct, p.ID, p.Name, p.Category, p.Price, p.Description); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}

	insertDate := insertStatement(s, "dim_date", "date_id", "date", "year", "month", "day", "quarter", "weekday", "month_name", "is_weekend")
	for _, d := range SampleDates {
		err := s.Exec(ctx, insertDate, d.ID, d.Date, d.Date.Year(), int(d.Date.Month()), d.Date.Day(),
			d.Quarter, d.Weekday, d.MonthName, d.Weekend)
		if err != nil {
			return fmt.Errorf("insert date %d: %w", d.ID, err)
		}
	}

	insertSale := insertStatement(s, "fact_sales", "sale_id", "user_id", "product_id", "date_id", "amount", "quantity", "total_amount")
	for _, f := range SampleSales {
		if err := s.Exec(ctx, insertSale, f.ID, f.UserID, f.ProductID, f.DateID, f.Amount, f.Quantity, f.Total); err != nil {
			return fmt.Errorf("insert sale %d: %w", f.ID, err)
		}
	}
	return nil
}

func insertStatement(s Seeder, table string, columns ...string) string {
	marks := make([]string, len(columns))
	for i := range columns {
		marks[i] = s.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(marks, ", "))
}
