package relay

import "testing"

func TestParseApplicationFormFull(t *testing.T) {
	text := "ООО Ромашка\n7701234567\nСбербанк\n20\nТехника\nОплата по договору 17\n1500000\nЭкскаватор\nСрочная заявка"
	app := ParseApplicationForm(text)
	if app.CompanyName != "ООО Ромашка" {
		t.Errorf("company = %q", app.CompanyName)
	}
	if app.TaxID != "7701234567" {
		t.Errorf("tax id = %q", app.TaxID)
	}
	if app.Bank != "Сбербанк" {
		t.Errorf("bank = %q", app.Bank)
	}
	if app.VATRate != 20 {
		t.Errorf("vat = %d", app.VATRate)
	}
	if app.Category != "Техника" {
		t.Errorf("category = %q", app.Category)
	}
	if app.PaymentPurpose != "Оплата по договору 17" {
		t.Errorf("purpose = %q", app.PaymentPurpose)
	}
	if app.Amount != 1_500_000 {
		t.Errorf("amount = %d", app.Amount)
	}
	if app.EquipmentType != "Экскаватор" {
		t.Errorf("equipment = %q", app.EquipmentType)
	}
	if app.Description != "Срочная заявка" {
		t.Errorf("description = %q", app.Description)
	}
}

func TestParseApplicationFormNonNumericVAT(t *testing.T) {
	text := "Фирма\nИНН\nБанк\nбез НДС\nКатегория\nНазначение\nмного\nТехника\nОписание"
	app := ParseApplicationForm(text)
	if app.VATRate != 0 {
		t.Errorf("non-numeric VAT parsed as %d, want 0", app.VATRate)
	}
	if app.Amount != 0 {
		t.Errorf("non-numeric amount parsed as %d, want 0", app.Amount)
	}
	if app.CompanyName != "Фирма" {
		t.Errorf("other fields must survive: company = %q", app.CompanyName)
	}
}

func TestParseApplicationFormShortInput(t *testing.T) {
	app := ParseApplicationForm("Только фирма\n123")
	if app.CompanyName != "Только фирма" || app.TaxID != "123" {
		t.Fatalf("parsed = %+v", app)
	}
	if app.Bank != "" || app.Category != "" || app.Description != "" {
		t.Errorf("missing text fields must be empty: %+v", app)
	}
	if app.VATRate != 0 || app.Amount != 0 {
		t.Errorf("missing numeric fields must be zero: %+v", app)
	}
}

func TestParseApplicationFormExtraLinesIgnored(t *testing.T) {
	text := "a\nb\nc\n1\nd\ne\n2\nf\ng\nextra\nmore"
	app := ParseApplicationForm(text)
	if app.Description != "g" {
		t.Errorf("description = %q, extra lines must be dropped", app.Description)
	}
}

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"20", 20},
		{"20%", 20},
		{"20 процентов", 20},
		{"без НДС", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseIntDefault(tc.in); got != tc.want {
			t.Errorf("parseIntDefault(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountDefault(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1500000", 1_500_000},
		{"1 500 000", 1_500_000},
		{"1.500.000", 1_500_000},
		{"100 usd", 100},
		{"примерно миллион", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseAmountDefault(tc.in); got != tc.want {
			t.Errorf("parseAmountDefault(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
