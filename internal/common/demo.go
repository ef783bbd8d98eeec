package common

import "fjacquet/revenue-dash/internal/models"

// DemoTable returns twelve months of 2024 sample sales with the Korean headers used
// by the monthly sales sheet: month, revenue, prior-year revenue, growth rate.
func DemoTable() models.RawTable {
	return models.RawTable{
		Columns: []string{"월", "매출액", "전년동월", "증감률"},
		Rows: [][]string{
			{"2024-01", "12000000", "10500000", "14.3"},
			{"2024-02", "13500000", "11200000", "20.5"},
			{"2024-03", "11000000", "12800000", "-14.1"},
			{"2024-04", "18000000", "15200000", "18.4"},
			{"2024-05", "21000000", "18500000", "13.5"},
			{"2024-06", "19000000", "17000000", "11.8"},
			{"2024-07", "23000000", "20000000", "15.0"},
			{"2024-08", "22000000", "19500000", "12.8"},
			{"2024-09", "25000000", "21000000", "19.0"},
			{"2024-10", "26000000", "22500000", "15.6"},
			{"2024-11", "28000000", "25000000", "12.0"},
			{"2024-12", "24000000", "21000000", "14.3"},
		},
	}
}
