package product

import "github.com/shopspring/decimal"

func strp(s string) *string { return &s }

func coffee(name, desc, roast, origin, price string) Product {
	return Product{
		Name:        name,
		Description: desc,
		Category:    CategoryCoffee,
		Roast:       strp(roast),
		Origin:      strp(origin),
		Price:       decimal.RequireFromString(price),
	}
}

func equipment(name, desc, price string) Product {
	return Product{
		Name:        name,
		Description: desc,
		Category:    CategoryEquipment,
		Price:       decimal.RequireFromString(price),
	}
}

// SeedCatalog is the starter catalog loaded by cmd/seed.
func SeedCatalog() []Product {
	return []Product{
		coffee("Ethiopian Yirgacheffe",
			"Bright and fruity with blueberry and citrus notes. A light roast that showcases the bean's natural complexity.",
			"light", "Ethiopia", "18.99"),
		coffee("Colombian Supremo",
			"Well-balanced with caramel sweetness and a nutty finish. A crowd-pleasing medium roast.",
			"medium", "Colombia", "16.99"),
		coffee("Sumatra Mandheling",
			"Earthy and full-bodied with notes of dark chocolate and cedar. Bold dark roast.",
			"dark", "Indonesia", "17.99"),
		coffee("Morning Kickstart",
			"Our boldest blend designed to jumpstart your day. Rich, smoky, and intense.",
			"dark", "Blend", "14.99"),
		coffee("Smooth Operator",
			"A mellow everyday blend with low acidity and hints of milk chocolate.",
			"medium", "Blend", "13.99"),
		coffee("Espresso Classico",
			"Traditional Italian-style espresso blend. Creamy, sweet, with a long finish.",
			"dark", "Blend", "15.99"),
		equipment("Burr Master Pro",
			"Electric burr grinder with 40 grind settings. Consistent grounds for any brewing method.",
			"89.99"),
		equipment("French Press Classic",
			"34 oz glass French press with stainless steel plunger. Makes 8 cups of rich, full-bodied coffee.",
			"32.99"),
		equipment("Gooseneck Kettle",
			"Electric kettle with temperature control and precision pour spout. Perfect for pour-over brewing.",
			"54.99"),
	}
}
