package classifier

import "strings"

// Template is a named, fixed SQL statement for one question category.
// Templates are values; the set below is closed and built at init.
type Template struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
	SQL         string `json:"sql,omitempty" yaml:"sql,omitempty"`
	// Product is set on a bound product lookup.
	Product string `json:"product,omitempty" yaml:"product,omitempty"`
}

// IsComprehensive reports whether t is the run-everything sentinel.
func (t Template) IsComprehensive() bool {
	return t.Name == Comprehensive.Name
}

const productPlaceholder = "{{product}}"

// BindProduct returns the product lookup template filtered on alias. The
// alias must come from the classifier's product list, never from raw input.
func BindProduct(alias string) Template {
	t := productLookup
	t.Product = alias
	t.SQL = strings.ReplaceAll(productLookup.SQL, productPlaceholder, strings.ToLower(alias))
	return t
}

var (
	TopCustomers = Template{
		Name:        "top_customers",
		Category:    "top customers",
		Description: "Customers ranked by total spend",
		SQL: `SELECT u.name, u.city, u.company, SUM(s.total_amount) AS total_spent
FROM fact_sales s
JOIN dim_users u ON s.user_id = u.user_id
GROUP BY u.user_id, u.name, u.city, u.company
ORDER BY total_spent DESC
LIMIT 10`,
	}

	ProductPerformance = Template{
		Name:        "product_performance",
		Category:    "product performance",
		Description: "Products ranked by revenue with volume",
		SQL: `SELECT p.product_name, p.category, p.price,
       COUNT(s.sale_id) AS sales_count,
       SUM(s.quantity) AS total_quantity_sold,
       SUM(s.total_amount) AS total_revenue
FROM fact_sales s
JOIN dim_products p ON s.product_id = p.product_id
GROUP BY p.product_id, p.product_name, p.category, p.price
ORDER BY total_revenue DESC`,
	}

	CustomerAnalysis = Template{
		Name:        "customer_analysis",
		Category:    "customer analysis",
		Description: "Per customer orders, spend and average order",
		SQL: `SELECT u.name, u.city, u.company,
       COUNT(s.sale_id) AS order_count,
       SUM(s.total_amount) AS total_spent,
       AVG(s.total_amount) AS avg_order
FROM fact_sales s
JOIN dim_users u ON s.user_id = u.user_id
GROUP BY u.user_id, u.name, u.city, u.company
ORDER BY total_spent DESC`,
	}

	SalesSummary = Template{
		Name:        "sales_summary",
		Category:    "sales summary",
		Description: "Transaction count, revenue, average order value and customers",
		SQL: `SELECT COUNT(*) AS total_sales,
       SUM(s.total_amount) AS total_revenue,
       AVG(s.total_amount) AS avg_order_value,
       COUNT(DISTINCT s.user_id) AS unique_customers
FROM fact_sales s`,
	}

	CategoryBreakdown = Template{
		Name:        "category_breakdown",
		Category:    "category breakdown",
		Description: "Revenue and share per product category",
		SQL: `SELECT p.category,
       COUNT(DISTINCT p.product_id) AS product_count,
       COUNT(s.sale_id) AS sales_count,
       SUM(s.total_amount) AS total_revenue,
       AVG(s.total_amount) AS avg_order_value,
       ROUND(SUM(s.total_amount) * 100.0 / (SELECT SUM(total_amount) FROM fact_sales), 2) AS revenue_percentage
FROM fact_sales s
JOIN dim_products p ON s.product_id = p.product_id
GROUP BY p.category
ORDER BY total_revenue DESC`,
	}

	productLookup = Template{
		Name:        "product_lookup",
		Category:    "product lookup",
		Description: "Sales of one named product by customer",
		SQL: `SELECT p.product_name, p.category, p.price,
       SUM(s.quantity) AS quantity_sold,
       SUM(s.total_amount) AS total_revenue,
       COUNT(s.sale_id) AS order_count,
       u.name AS customer
FROM fact_sales s
JOIN dim_products p ON s.product_id = p.product_id
JOIN dim_users u ON s.user_id = u.user_id
WHERE LOWER(p.product_name) LIKE '%` + productPlaceholder + `%'
GROUP BY p.product_id, p.product_name, p.category, p.price, u.name
ORDER BY total_revenue DESC`,
	}

	// Comprehensive carries no SQL; callers run ComprehensiveSet instead.
	Comprehensive = Template{
		Name:        "comprehensive_analysis",
		Category:    "comprehensive analysis",
		Description: "Runs every analysis template and aggregates the results",
	}
)

// ComprehensiveSet is the ordered list run for a comprehensive analysis.
var ComprehensiveSet = []Template{SalesSummary, ProductPerformance, CustomerAnalysis, CategoryBreakdown}

// Templates lists the closed template set. The product lookup is listed
// unbound.
func Templates() []Template {
	return []Template{TopCustomers, ProductPerformance, CustomerAnalysis, SalesSummary, CategoryBreakdown, productLookup, Comprehensive}
}

// Lookup finds a template by name.
func Lookup(name string) (Template, bool) {
	for _, t := range Templates() {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
