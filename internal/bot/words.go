package bot

var categories = map[string][]string{
	"animals": {"horse", "cat", "cow", "lion", "sheep", "pig", "dolphin", "goat", "wolf", "elephant"},
	"colours": {"red", "green", "blue", "purple", "orange", "black", "white", "yellow"},
	"fruits":  {"apple", "strawberries", "pineapple", "grape", "mango", "orange", "cherry", "watermelon", "dragonfruit", "banana"},
}

// wordsByLength holds the pool for "/play <n>".
var wordsByLength = map[int][]string{
	3: {"ant", "bag", "cup", "dog", "elf", "fog", "gum", "hat", "ink", "jam", "kit", "log", "map", "net", "owl", "pen", "rug", "sun", "toy", "van"},
	4: {"apex", "bark", "cave", "dust", "echo", "fern", "gift", "harp", "iris", "jolt", "kite", "lamp", "mint", "nest", "opal", "pear", "quiz", "rope", "sand", "tide"},
	5: {"amber", "blaze", "chess", "drift", "eagle", "frost", "grove", "honey", "ivory", "jelly", "koala", "lemon", "maple", "noble", "ocean", "pearl", "quilt", "river", "stone", "tulip"},
	6: {"anchor", "breeze", "candle", "desert", "engine", "forest", "galaxy", "hammer", "island", "jungle", "kettle", "lizard", "marble", "needle", "orchid", "pepper", "rocket", "silver", "tunnel", "violet"},
}
