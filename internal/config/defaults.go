package config

// ApplyDefaults sets default values for any zero values in cfg.
// The taxonomy defaults encode the Alkosto store taxonomy; deployments
// against another retailer are expected to override them in the config file.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.Driver == "" {
		cfg.Catalog.Driver = "sqlite"
	}
	if cfg.Catalog.DatabasePath == "" {
		cfg.Catalog.DatabasePath = "/usr/local/var/ofertero/data/db/products.db"
	}
	if cfg.Catalog.MongoURI == "" {
		cfg.Catalog.MongoURI = "mongodb://localhost:27017"
	}
	if cfg.Catalog.MongoDatabase == "" {
		cfg.Catalog.MongoDatabase = "alkosto_db"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/ofertero/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = "/usr/local/var/ofertero/data/embeddings"
	}
	if cfg.Index.BatchSize == 0 {
		cfg.Index.BatchSize = 100
	}
	if cfg.Search.DefaultTopK == 0 {
		cfg.Search.DefaultTopK = 10
	}
	if cfg.Search.MaxTopK == 0 {
		cfg.Search.MaxTopK = 50
	}
	if cfg.Search.OverFetch == 0 {
		cfg.Search.OverFetch = 3
	}
	if cfg.Search.DefaultThreshold == 0 {
		cfg.Search.DefaultThreshold = 0.45
	}
	if cfg.Search.SpecificThreshold == 0 {
		cfg.Search.SpecificThreshold = 0.25
	}
	if cfg.Search.GreetingThreshold == 0 {
		cfg.Search.GreetingThreshold = 0.35
	}
	if cfg.Search.PortabilityFloor == 0 {
		cfg.Search.PortabilityFloor = 0.55
	}
	if cfg.Search.ConflictPenalty == 0 {
		cfg.Search.ConflictPenalty = 0.7
	}
	if cfg.Search.PriceScale == 0 {
		cfg.Search.PriceScale = 1000
	}
	applyTaxonomyDefaults(&cfg.Taxonomy)
}

func applyTaxonomyDefaults(t *TaxonomyConfig) {
	if t.CategoryMap == nil {
		t.CategoryMap = map[string]string{
			"smartphones":             "Smartphones",
			"celulares":               "Smartphones",
			"celular":                 "Smartphones",
			"portatiles":              "Portátiles",
			"portátiles":              "Portátiles",
			"computadores portatiles": "Portátiles",
			"computadores_escritorio": "Computadores de Escritorio",
			"escritorio":              "Computadores de Escritorio",
			"all in one":              "Computadores de Escritorio",
			"all-in-one":              "Computadores de Escritorio",
			"tablets":                 "Tablets",
			"tabletas":                "Tablets",
			"ipads":                   "Tablets",
			"monitores":               "Monitores",
			"proyectores":             "Proyectores",
			"videobeam":               "Proyectores",
			"televisores":             "Televisores",
			"smart tv":                "Televisores",
			"smart-tv":                "Televisores",
			"complementos_tv":         "Complementos TV",
			"complementos tv":         "Complementos TV",
			"accesorios_tv":           "Accesorios TV",
			"accesorios tv":           "Accesorios TV",
			"accesorios_videojuegos":  "Accesorios Videojuegos",
			"consolas":                "Consolas",
			"videojuegos":             "Consolas",
			"audifonos":               "Audífonos",
			"audífonos":               "Audífonos",
			"accesorios":              "Accesorios Electrónicos",
			"casa_inteligente":        "Casa Inteligente",
			"casa inteligente":        "Casa Inteligente",
			"domotica":                "Casa Inteligente",
		}
	}
	if t.MainCategories == nil {
		t.MainCategories = []string{
			"Smartphones",
			"Portátiles",
			"Computadores de Escritorio",
			"Tablets",
			"Televisores",
			"Monitores",
			"Proyectores",
			"Consolas",
			"Audífonos",
		}
	}
	if t.ImportantSpecKeys == nil {
		t.ImportantSpecKeys = []string{
			"procesador", "processor", "cpu",
			"ram", "memoria",
			"almacenamiento", "storage", "disco", "ssd",
			"pantalla", "screen", "pulgadas",
			"bateria", "batería", "battery",
			"camara", "cámara", "camera",
			"resolucion", "resolución", "resolution",
			"capacidad", "capacity",
			"sistema operativo", "grafica", "gráfica", "conectividad",
		}
	}
	if t.MaxSpecsForFull == 0 {
		t.MaxSpecsForFull = 15
	}
	if t.PortableMarkers == nil {
		t.PortableMarkers = []string{"portátil", "portatil", "laptop", "notebook", "macbook"}
	}
	if t.DesktopMarkers == nil {
		t.DesktopMarkers = []string{"all in one", "all-in-one", "aio", "escritorio", "desktop", "torre"}
	}
	if t.Stopwords == nil {
		t.Stopwords = []string{
			"un", "una", "unos", "unas", "el", "la", "los", "las",
			"de", "del", "al", "a", "en", "con", "por", "para",
			"y", "o", "u", "que", "me", "mi", "su", "es",
			"busco", "quiero", "necesito", "dame", "hay", "tienes", "estoy", "buscando",
		}
	}
	if t.Expansions == nil {
		t.Expansions = map[string]string{
			"portatil":  "portátil laptop notebook computador es portátil: sí",
			"laptop":    "portátil laptop notebook computador es portátil: sí",
			"notebook":  "portátil laptop notebook computador es portátil: sí",
			"celular":   "celular smartphone teléfono móvil",
			"tv":        "televisor television smart tv pantalla",
			"televisor": "televisor television smart tv pantalla",
			"audifonos": "audífonos auriculares headphones",
			"tablet":    "tablet tableta ipad",
		}
	}
	if t.CategoryKeywords == nil {
		t.CategoryKeywords = []CategoryKeywords{
			{Category: "celulares", Keywords: []string{"celular", "telefono", "teléfono", "smartphone", "movil", "móvil", "iphone", "galaxy"}},
			{Category: "computadores", Keywords: []string{"computador", "pc", "laptop", "portatil", "portátil", "notebook", "macbook"}},
			{Category: "televisores", Keywords: []string{"tv", "television", "televisión", "televisor", "pantalla"}},
			{Category: "audífonos", Keywords: []string{"audifonos", "audífonos", "auriculares", "headphones", "airpods"}},
			{Category: "tablets", Keywords: []string{"tablet", "ipad"}},
			{Category: "electrodomésticos", Keywords: []string{"nevera", "lavadora", "microondas", "licuadora", "aspiradora"}},
			{Category: "gaming", Keywords: []string{"gaming", "gamer", "juegos", "consola", "ps4", "ps5", "xbox"}},
			{Category: "accesorios", Keywords: []string{"cable", "cargador", "funda", "protector", "soporte"}},
		}
	}
	if t.Brands == nil {
		t.Brands = []string{
			"samsung", "apple", "huawei", "xiaomi", "lg", "sony",
			"lenovo", "hp", "dell", "asus", "acer", "nokia",
			"motorola", "oneplus", "oppo", "vivo", "honor",
			"msi", "alienware", "razer", "corsair", "logitech",
		}
	}
	if t.DealKeywords == nil {
		t.DealKeywords = []string{
			"oferta", "descuento", "barato", "promocion", "promoción",
			"rebaja", "outlet", "liquidacion", "liquidación", "ganga",
		}
	}
	if t.Greetings == nil {
		t.Greetings = []string{"hola", "buenas", "buenos días", "buenos dias", "saludos", "hey"}
	}
}
