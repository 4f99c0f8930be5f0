package services

import (
	"fmt"
	"strings"

	"datamilo/database"
)

// DescribeSchema renders the tables for a model prompt.
func DescribeSchema(schema []database.TableSchema) string {
	var schemaDesc strings.Builder
	schemaDesc.WriteString("Database Schema:\n")

	for _, table := range schema {
		schemaDesc.WriteString(fmt.Sprintf("- %s: %s\n", table.Name, table.Description))
		schemaDesc.WriteString("  Columns: ")
		for i, col := range table.Columns {
			nullable := ""
			if !col.Nullable {
				nullable = " NOT NULL"
			}
			schemaDesc.WriteString(fmt.Sprintf("%s (%s%s)", col.Name, col.Type, nullable))
			if i < len(table.Columns)-1 {
				schemaDesc.WriteString(", ")
			}
		}
		schemaDesc.WriteString("\n")
	}
	return schemaDesc.String()
}

// BuildSQLPrompt asks for a single read-only query answering question.
func BuildSQLPrompt(question string, schema []database.TableSchema) string {
	return fmt.Sprintf(`You are a data analyst writing SQL for a star schema sales warehouse.

%s
Schema rules:
- product_name and category live ONLY in dim_products, never in fact_sales
- name, city and company live ONLY in dim_users, never in fact_sales
- ALWAYS join through the keys: fact_sales f JOIN dim_products p ON f.product_id = p.product_id
- For product questions use WHERE p.product_name LIKE '%%ProductName%%'
- Do not assume cities or geography unless explicitly asked
- Read only: a single SELECT statement, never INSERT, UPDATE, DELETE, DROP, ALTER, CREATE or TRUNCATE

Business Question: %q

Return ONLY the SQL query, no explanations or extra text.
SQL Query:
`, DescribeSchema(schema), question)
}
