package navigator

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profile is the set of CSS selectors driving page navigation. Fields
// holding a "%d" verb are printf patterns filled with a 1-based index.
type Profile struct {
	Name          string `yaml:"name"`
	RegularPrice  string `yaml:"regular_price"`
	DiscountPrice string `yaml:"discount_price"`
	Rating        string `yaml:"rating"`
	ReviewCount   string `yaml:"review_count"`
	DetailToggle  string `yaml:"detail_toggle"`
	ReviewTab     string `yaml:"review_tab"`
	SortHelpful   string `yaml:"sort_helpful"`
	GraphArea     string `yaml:"graph_area"`
	GraphPercent  string `yaml:"graph_percent"`

	// ImageStrategies are tried in order; the first selector yielding at
	// least one usable URL wins.
	ImageStrategies []string `yaml:"image_strategies"`

	ReviewList   string `yaml:"review_list"`
	ReviewItem   string `yaml:"review_item"`
	ReviewText   string `yaml:"review_text"`
	ReviewRating string `yaml:"review_rating"`

	PagingCurrent   string `yaml:"paging_current"`
	PagingNext      string `yaml:"paging_next"`
	PagingNextBlock string `yaml:"paging_next_block"`
}

// DefaultProfile returns the selector set for the stock product page layout.
func DefaultProfile() Profile {
	const graphArea = "#gdasContentsArea > div > div.product_rating_area.review-write-delete > div > div.graph_area"
	const paging = "#gdasContentsArea > div > div.pageing"
	return Profile{
		Name:          "#Contents > div.prd_detail_box.renew > div.right_area > div > p.prd_name",
		RegularPrice:  "#Contents > div.prd_detail_box.renew > div.right_area > div > div.price > span.price-1 > strike",
		DiscountPrice: "#Contents > div.prd_detail_box.renew > div.right_area > div > div.price > span.price-2 > strong",
		Rating:        "#repReview > b",
		ReviewCount:   "#repReview > em",
		DetailToggle:  "#btn_toggle_detail_image",
		ReviewTab:     "#reviewInfo > a",
		SortHelpful:   "#gdasSort > li:nth-child(2) > a",
		GraphArea:     graphArea,
		GraphPercent:  graphArea + " > ul > li:nth-child(%d) > span.per",
		ImageStrategies: []string{
			"#tempHtml2 > center img",
			"#tempHtml2 img",
			"#tempHtml img",
			".detail_info_wrap img",
			".prd_detail_info img",
			".goods_detail_wrap img",
		},
		ReviewList:      "#gdasList",
		ReviewItem:      "#gdasList > li",
		ReviewText:      "#gdasList > li:nth-child(%d) > div.review_cont > div.txt_inner",
		ReviewRating:    "#gdasList > li:nth-child(%d) > div.review_cont > div.score_area > span.review_point > span",
		PagingCurrent:   paging + " > strong",
		PagingNext:      paging + " > strong + a",
		PagingNextBlock: paging + " > a.next",
	}
}

// LoadProfile overlays a YAML selector file on the defaults. Keys absent
// from the file keep their default value.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, eris.Wrapf(err, "navigator: read selector profile %s", path)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, eris.Wrapf(err, "navigator: parse selector profile %s", path)
	}
	return p, nil
}
