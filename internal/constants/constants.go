package constants

import "time"

var CacheTTL = struct {
	PokemonList   time.Duration
	PokemonDetail time.Duration
	Search        time.Duration
	TypeFilter    time.Duration
	News          time.Duration
}{
	PokemonList:   5 * time.Minute,  // 전체 목록
	PokemonDetail: 20 * time.Minute, // 상세
	Search:        1 * time.Minute,  // 검색 결과
	TypeFilter:    5 * time.Minute,  // 타입 필터 결과
	News:          5 * time.Minute,  // 뉴스
}

var APIConfig = struct {
	DefaultBaseURL string
	Timeout        time.Duration
	UserAgent      string
}{
	DefaultBaseURL: "http://localhost:3000",
	Timeout:        10 * time.Second,
	UserAgent:      "PokemonCatalog/1.0",
}

var APIPaths = struct {
	Pokemon      string
	PokemonByID  string
	Search       string
	FilterByType string
	News         string
}{
	Pokemon:      "/api/pokemon",
	PokemonByID:  "/api/pokemon/",
	Search:       "/api/pokemon/search",
	FilterByType: "/api/pokemon/filter/type",
	News:         "/api/news",
}

var SearchConfig = struct {
	DebounceInterval time.Duration
}{
	DebounceInterval: 500 * time.Millisecond,
}

var HomeConfig = struct {
	FeaturedPokemon int
	LatestNews      int
	NewsPreviewLen  int
}{
	FeaturedPokemon: 4,
	LatestNews:      3,
	NewsPreviewLen:  180,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 5,                // 5회 연속 실패 시 OPEN
	ResetTimeout:     15 * time.Second, // HALF_OPEN 전환까지 대기
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
	KeyPrefix    string
}{
	ReadyTimeout: 5 * time.Second,
	KeyPrefix:    "catalog:",
}

var WebSocketConfig = struct {
	ReadLimit    int64
	WriteTimeout time.Duration
	PongWait     time.Duration
	PingInterval time.Duration
	SendBuffer   int
}{
	ReadLimit:    4096,
	WriteTimeout: 10 * time.Second,
	PongWait:     60 * time.Second,
	PingInterval: 50 * time.Second,
	SendBuffer:   16,
}

var ServerConfig = struct {
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}{
	ReadHeaderTimeout: 5 * time.Second,
	ShutdownTimeout:   10 * time.Second,
}

// ErrorMessages are the user-visible messages per page operation.
var ErrorMessages = struct {
	LoadList   string
	Search     string
	Filter     string
	LoadDetail string
	NotFound   string
	LoadHome   string
	Unknown    string
}{
	LoadList:   "Failed to load Pokemon",
	Search:     "Search failed",
	Filter:     "Filter failed",
	LoadDetail: "Failed to load Pokemon details",
	NotFound:   "Pokemon not found",
	LoadHome:   "Failed to load home page",
	Unknown:    "Something went wrong",
}
