package dataset

import (
	"testing"

	"sales-dashboard/internal/models"
)

func TestParseHour(t *testing.T) {
	tests := []struct {
		value    string
		wantTime string
		wantHour int
		wantErr  bool
	}{
		{"14:35:07", "14:35:07", 14, false},
		{"00:05:00", "00:05:00", 0, false},
		{"23:59:59", "23:59:59", 23, false},
		{" 09:15:00 ", "09:15:00", 9, false},
		{"0.5", "12:00:00", 12, false},
		{"0.999999", "23:59:59", 23, false},
		{"0", "00:00:00", 0, false},
		{"14:35", "", 0, true},
		{"2:35 PM", "", 0, true},
		{"25:00:00", "", 0, true},
		{"1.5", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			gotTime, gotHour, err := ParseHour(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHour(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if gotTime != tt.wantTime || gotHour != tt.wantHour {
				t.Errorf("ParseHour(%q) = %q, %d; want %q, %d", tt.value, gotTime, gotHour, tt.wantTime, tt.wantHour)
			}
		})
	}
}

func TestNewColumnIndex(t *testing.T) {
	header := []string{" Invoice ID", "City", "Customer_type", "Gender", "Product  line", "Total", "Rating", "Time", ""}

	idx, err := newColumnIndex(header)
	if err != nil {
		t.Fatalf("newColumnIndex() error = %v", err)
	}
	if idx[colProductLine] != 4 {
		t.Errorf("product line index = %d, want 4", idx[colProductLine])
	}
	if idx[colInvoiceID] != 0 {
		t.Errorf("invoice id index = %d, want 0", idx[colInvoiceID])
	}

	if _, err := newColumnIndex([]string{"City", "Gender"}); err == nil {
		t.Error("newColumnIndex() should reject a header without required columns")
	}
}

func TestParseTransaction(t *testing.T) {
	header := []string{"City", "Customer_type", "Gender", "Product line", "Total", "Rating", "Time", "Quantity", "Date"}
	cols, err := newColumnIndex(header)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		record  []string
		want    func(t *testing.T, tx models.Transaction)
		wantErr bool
	}{
		{
			name:   "complete",
			record: []string{"Yangon", "Member", "Female", "Food and beverages", "100.50", "8", "14:35:07", "3", "43470"},
			want: func(t *testing.T, tx models.Transaction) {
				if tx.Total.String() != "100.5" || tx.Rating != 8 || tx.Hour != 14 || tx.Quantity != 3 {
					t.Errorf("unexpected transaction: %+v", tx)
				}
				if tx.Date.Format("2006-01-02") != "2019-01-05" {
					t.Errorf("Date = %v, want 2019-01-05", tx.Date)
				}
			},
		},
		{
			name:   "optional fields blank",
			record: []string{"Yangon", "Member", "Female", "Food and beverages", "10", "6.5", "00:05:00"},
			want: func(t *testing.T, tx models.Transaction) {
				if tx.Quantity != 0 || !tx.Date.IsZero() || tx.Hour != 0 {
					t.Errorf("unexpected transaction: %+v", tx)
				}
			},
		},
		{name: "blank city", record: []string{"", "Member", "Female", "Food", "10", "6", "10:00:00"}, wantErr: true},
		{name: "bad total", record: []string{"Yangon", "Member", "Female", "Food", "ten", "6", "10:00:00"}, wantErr: true},
		{name: "bad rating", record: []string{"Yangon", "Member", "Female", "Food", "10", "", "10:00:00"}, wantErr: true},
		{name: "bad time", record: []string{"Yangon", "Member", "Female", "Food", "10", "6", "noon"}, wantErr: true},
		{name: "bad date", record: []string{"Yangon", "Member", "Female", "Food", "10", "6", "10:00:00", "1", "someday"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := parseTransaction(tt.record, cols)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTransaction() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.want != nil {
				tt.want(t, tx)
			}
		})
	}
}

func TestTable_Options(t *testing.T) {
	table := NewTable([]models.Transaction{
		{City: "Mandalay", CustomerType: "Normal", Gender: "Male"},
		{City: "Yangon", CustomerType: "Member", Gender: "Female"},
		{City: "Mandalay", CustomerType: "Member", Gender: "Male"},
	})

	opts := table.Options()
	if len(opts.Cities) != 2 || opts.Cities[0] != "Mandalay" || opts.Cities[1] != "Yangon" {
		t.Errorf("Cities = %v, want first-seen order [Mandalay Yangon]", opts.Cities)
	}

	// Mutating the returned options must not leak into the table.
	opts.Cities[0] = "Changed"
	if table.Options().Cities[0] != "Mandalay" {
		t.Error("Options() should return a copy")
	}

	rows := table.Rows()
	rows[0].City = "Changed"
	if table.Row(0).City != "Mandalay" {
		t.Error("Rows() should return a copy")
	}
}
