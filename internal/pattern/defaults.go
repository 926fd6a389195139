package pattern

// Set names, used in error messages and by the patterns subcommand.
const (
	SetCacheDirs         = "cache-dir"
	SetParentedCacheDirs = "parented-cache-dir"
	SetCacheDirParents   = "cache-dir-parent"
	SetExcludes          = "exclude"
	SetCacheFiles        = "cache-file"
	SetMasks             = "mask-path"
)

// Directories archived wholesale.
var defaultCacheDirs = []string{
	`^.jagex_cache_32$`,
	`^.file_store_32$`,
	`^jagexcache$`,
	`^classic$`,
	`^loginapplet$`,
	`^rsmap$`,
	`^runescape$`,
	`^cache-93423-17382-59373-28323$`,
}

// Directories archived only when their parent matches defaultCacheDirParents.
var defaultParentedCacheDirs = []string{
	`^live$`,
	`^live_beta$`,
}

var defaultCacheDirParents = []string{
	`^oldschool$`,
	`^runescape$`,
}

// Trees known to produce false positives.
var defaultExcludes = []string{
	`^planeshift$`,
}

var defaultCacheFiles = []string{
	`^code\.dat$`,
	`^jingle0\.mid$`,
	`^jingle1\.mid$`,
	`^jingle2\.mid$`,
	`^jingle3\.mid$`,
	`^jingle4\.mid$`,
	`^shared_game_unpacker\.dat$`,
	`^worldmap\.dat$`,

	`^1jfds`,
	`^94jfj`,
	`^a2155`,
	`^cht3f`,
	`^g34zx`,
	`^k23lk`,
	`^k4o2n`,
	`^lam3n`,
	`^mn24j`,
	`^plam3`,
	`^zck35`,
	`^zko34`,
	`^zl3kp`,
	`^zn12n`,
	`^24623168`,
	`^37966926`,
	`^236861982`,
	`^929793776`,
	`^60085811638`,
	`^1913169001452`,
	`^32993056653417`,
	`^3305336302107891869`,
	`^main_file_cache.`,

	`\.jag$`,

	`^loader.*\.(jar|cab|zip)$`,
	`^mapview.*\.(jar|cab|zip)$`,
	`^runescape.*\.(jar|cab|zip)$`,
	`^loginapplet.*\.(jar|cab|zip)$`,
	`^jag.*\.dll$`,
	`^(entity|land|maps|sounds).*\.mem$`,

	`mudclient`,
	`\.jag-`,
	`\.mem-`,
}

// Default is one named built-in pattern list.
type Default struct {
	Set      string
	Patterns []string
}

// Defaults returns copies of the built-in pattern lists in a stable order.
func Defaults() []Default {
	return []Default{
		{SetCacheDirs, clone(defaultCacheDirs)},
		{SetParentedCacheDirs, clone(defaultParentedCacheDirs)},
		{SetCacheDirParents, clone(defaultCacheDirParents)},
		{SetExcludes, clone(defaultExcludes)},
		{SetCacheFiles, clone(defaultCacheFiles)},
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
