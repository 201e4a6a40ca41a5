package categories

var defaultCategories = []Category{
	{
		ID: "food", Name: "Еда", Color: "#22c55e", Icon: "shopping-bag",
		Keywords: []string{"еда", "food", "продукты", "grocery", "супермаркет", "магазин"},
		Subcategories: []Subcategory{
			{ID: "restaurants", Name: "Рестораны", Keywords: []string{"ресторан", "restaurant", "кафе", "cafe", "бар", "bar", "макдональдс", "mcdonald", "kfc", "бургер", "burger"}},
			{ID: "groceries", Name: "Продукты", Keywords: []string{"пятёрочка", "магнит", "перекрёсток", "ашан", "лента", "дикси", "продукты", "grocery", "супермаркет", "supermarket"}},
			{ID: "coffee", Name: "Кофе", Keywords: []string{"кофе", "coffee", "starbucks", "старбакс", "кофейня", "coffeeshop", "латте", "latte", "капучино"}},
			{ID: "delivery", Name: "Доставка", Keywords: []string{"доставка", "delivery", "яндекс еда", "yandex", "деливери", "delivery club"}},
		},
	},
	{
		ID: "transport", Name: "Транспорт", Color: "#3b82f6", Icon: "car",
		Keywords: []string{"транспорт", "transport", "авто", "auto", "машина", "car"},
		Subcategories: []Subcategory{
			{ID: "taxi", Name: "Такси", Keywords: []string{"такси", "taxi", "uber", "яндекс такси", "yandex", "bolt", "ситимобил"}},
			{ID: "fuel", Name: "Бензин", Keywords: []string{"бензин", "fuel", "газ", "gas", "азс", "заправка", "лукойл", "газпром", "роснефть"}},
			{ID: "parking", Name: "Парковка", Keywords: []string{"парковка", "parking", "стоянка"}},
			{ID: "public", Name: "Общественный", Keywords: []string{"метро", "metro", "автобус", "bus", "троллейбус", "трамвай", "электричка"}},
		},
	},
	{
		ID: "home", Name: "Дом", Color: "#8b5cf6", Icon: "home",
		Keywords: []string{"дом", "home", "квартира", "apartment", "жильё"},
		Subcategories: []Subcategory{
			{ID: "rent", Name: "Аренда", Keywords: []string{"аренда", "rent", "квартплата"}},
			{ID: "utilities", Name: "Коммуналка", Keywords: []string{"коммуналка", "utilities", "свет", "electricity", "вода", "water", "газ", "отопление"}},
			{ID: "repair", Name: "Ремонт", Keywords: []string{"ремонт", "repair", "мебель", "furniture", "декор", "decor"}},
		},
	},
	{
		ID: "entertainment", Name: "Развлечения", Color: "#f59e0b", Icon: "gamepad-2",
		Keywords: []string{"развлечения", "entertainment", "досуг", "leisure"},
		Subcategories: []Subcategory{
			{ID: "cinema", Name: "Кино", Keywords: []string{"кино", "cinema", "фильм", "movie", "кинотеатр"}},
			{ID: "games", Name: "Игры", Keywords: []string{"игры", "games", "steam", "playstation", "xbox", "nintendo"}},
			{ID: "hobby", Name: "Хобби", Keywords: []string{"хобби", "hobby"}},
		},
	},
	{
		ID: "clothing", Name: "Одежда", Color: "#ec4899", Icon: "shirt",
		Keywords: []string{"одежда", "clothing", "clothes"},
		Subcategories: []Subcategory{
			{ID: "clothes", Name: "Одежда", Keywords: []string{"h&m", "zara", "uniqlo", "reserved", "bershka", "pull&bear"}},
			{ID: "shoes", Name: "Обувь", Keywords: []string{"обувь", "shoes", "кроссовки", "sneakers", "ботинки"}},
			{ID: "accessories", Name: "Аксессуары", Keywords: []string{"аксессуары", "accessories", "сумка", "bag", "часы", "watch"}},
		},
	},
	{
		ID: "health", Name: "Здоровье", Color: "#ef4444", Icon: "heart",
		Keywords: []string{"здоровье", "health", "медицина", "medicine"},
		Subcategories: []Subcategory{
			{ID: "pharmacy", Name: "Аптека", Keywords: []string{"аптека", "pharmacy", "лекарства", "medicine", "таблетки"}},
			{ID: "doctor", Name: "Врачи", Keywords: []string{"врач", "doctor", "клиника", "clinic", "больница", "hospital", "стоматолог"}},
			{ID: "sport", Name: "Спорт", Keywords: []string{"спорт", "sport", "фитнес", "fitness", "зал", "gym", "тренажёрка"}},
		},
	},
	{
		ID: "subscriptions", Name: "Подписки", Color: "#06b6d4", Icon: "smartphone",
		Keywords: []string{"подписка", "subscription"},
		Subcategories: []Subcategory{
			{ID: "streaming", Name: "Стриминг", Keywords: []string{"netflix", "нетфликс", "spotify", "спотифай", "apple music", "youtube premium", "кинопоиск"}},
			{ID: "software", Name: "Софт", Keywords: []string{"adobe", "microsoft", "office", "dropbox", "icloud"}},
			{ID: "services", Name: "Сервисы", Keywords: []string{"сервис", "service"}},
		},
	},
	{
		ID: "education", Name: "Образование", Color: "#a855f7", Icon: "graduation-cap",
		Keywords: []string{"образование", "education", "обучение", "learning"},
		Subcategories: []Subcategory{
			{ID: "courses", Name: "Курсы", Keywords: []string{"курс", "course", "udemy", "coursera", "skillbox", "нетология"}},
			{ID: "books", Name: "Книги", Keywords: []string{"книга", "book", "литрес", "litres", "лабиринт"}},
			{ID: "training", Name: "Обучение", Keywords: []string{"обучение", "training", "репетитор", "tutor"}},
		},
	},
	{
		ID: "travel", Name: "Путешествия", Color: "#14b8a6", Icon: "plane",
		Keywords: []string{"путешествия", "travel", "поездка", "trip"},
		Subcategories: []Subcategory{
			{ID: "flights", Name: "Авиа", Keywords: []string{"авиа", "flight", "самолёт", "plane", "билет", "ticket"}},
			{ID: "hotels", Name: "Отели", Keywords: []string{"отель", "hotel", "гостиница", "booking", "airbnb"}},
			{ID: "tours", Name: "Туры", Keywords: []string{"тур", "tour", "экскурсия", "excursion"}},
		},
	},
	{
		ID: "gifts", Name: "Подарки", Color: "#f43f5e", Icon: "gift",
		Keywords: []string{"подарок", "gift", "презент", "present"},
	},
	{
		ID: "work", Name: "Работа", Color: "#64748b", Icon: "briefcase",
		Keywords: []string{"работа", "work", "офис", "office", "бизнес", "business"},
	},
	{
		ID: OtherID, Name: OtherName, Color: OtherColor, Icon: OtherIcon,
		Keywords: []string{"другое", "other", "прочее"},
	},
}
