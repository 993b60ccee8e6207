// Package fallback serves the bundled sample data shown when the database is
// absent or failing.
package fallback

import (
	"embed"
	"encoding/json"
	"fmt"

	"news-spectrum/models"
)

//go:embed data/*.json
var files embed.FS

// GlobalInsights returns the sample global insights listing.
func GlobalInsights() ([]models.GlobalInsight, error) {
	var items []models.GlobalInsight
	if err := decode("data/global_list.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// VsCard returns the sample megatopic detail.
func VsCard() (models.VsCard, error) {
	var card models.VsCard
	if err := decode("data/vs_card.json", &card); err != nil {
		return models.VsCard{}, err
	}
	return card, nil
}

// LocalTrends returns the sample trends page for a country.
func LocalTrends() (models.LocalTrendPage, error) {
	var page models.LocalTrendPage
	if err := decode("data/local_list.json", &page); err != nil {
		return models.LocalTrendPage{}, err
	}
	return page, nil
}

// LocalTopic looks a sample local topic up by id.
func LocalTopic(id string) (models.LocalTrend, bool, error) {
	page, err := LocalTrends()
	if err != nil {
		return models.LocalTrend{}, false, err
	}
	for _, t := range page.Topics {
		if t.TopicID == id {
			return t, true, nil
		}
	}
	return models.LocalTrend{}, false, nil
}

func decode(name string, v any) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fallback %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode fallback %s: %w", name, err)
	}
	return nil
}
