package domain

// FeaturedCollections returns the curated collections shipped with the
// application. The order matters for display.
func FeaturedCollections() []Collection {
	return []Collection{
		{
			ID:          "fc-motivation",
			Name:        "Motivation Boost",
			Description: "For when you need inspiration to take action",
			Purpose:     "motivation",
			Thumbnails: []string{
				"https://i.ytimg.com/vi/IdTMDpizis8/mqdefault.jpg",
				"https://i.ytimg.com/vi/V80-gPkpH6M/mqdefault.jpg",
				"https://i.ytimg.com/vi/PE0twVEGjDA/mqdefault.jpg",
				"https://i.ytimg.com/vi/p3wU7wRITtk/mqdefault.jpg",
			},
			VideoIDs: []string{
				"IdTMDpizis8", "V80-gPkpH6M", "PE0twVEGjDA", "p3wU7wRITtk",
				"mgmVOuLgFB0", "lsSC2vx7zFQ", "ZwYy4scOJi8", "KxGRhd_iWuE",
			},
		},
		{
			ID:          "fc-rut",
			Name:        "Get Out of a Rut",
			Description: "Fresh perspectives to break stagnant patterns",
			Purpose:     "rut",
			Thumbnails: []string{
				"https://i.ytimg.com/vi/dItL0dKXFyo/mqdefault.jpg",
				"https://i.ytimg.com/vi/7sxpKhIbr0E/mqdefault.jpg",
				"https://i.ytimg.com/vi/0QXmmP4psbA/mqdefault.jpg",
				"https://i.ytimg.com/vi/jpZnVFlFtlA/mqdefault.jpg",
			},
			VideoIDs: []string{
				"dItL0dKXFyo", "7sxpKhIbr0E", "0QXmmP4psbA", "jpZnVFlFtlA",
				"mNeXuCYiE0U", "vpD5vKocF1Y", "Cpc4_9jklRQ",
			},
		},
		{
			ID:          "fc-business",
			Name:        "Business Insights",
			Description: "Strategic content for professional growth",
			Purpose:     "business",
			Thumbnails: []string{
				"https://i.ytimg.com/vi/bEA1MzCBEsM/mqdefault.jpg",
				"https://i.ytimg.com/vi/Ggfnt_0ujQs/mqdefault.jpg",
				"https://i.ytimg.com/vi/YDjY0dfQ7Cw/mqdefault.jpg",
				"https://i.ytimg.com/vi/w4DkgSw_g4c/mqdefault.jpg",
			},
			VideoIDs: []string{
				"bEA1MzCBEsM", "Ggfnt_0ujQs", "YDjY0dfQ7Cw", "w4DkgSw_g4c",
				"rPw0JLpuUWI", "HKM3r9xvUDU",
			},
		},
		{
			ID:          "fc-inspiration",
			Name:        "Creative Inspiration",
			Description: "Spark your imagination and creative thinking",
			Purpose:     "inspiration",
			Thumbnails: []string{
				"https://i.ytimg.com/vi/lkKIuj1yOwQ/mqdefault.jpg",
				"https://i.ytimg.com/vi/9vpqilhW9uI/mqdefault.jpg",
				"https://i.ytimg.com/vi/K67xqY9zCzI/mqdefault.jpg",
				"https://i.ytimg.com/vi/zADxJwEBEGs/mqdefault.jpg",
			},
			VideoIDs: []string{
				"lkKIuj1yOwQ", "9vpqilhW9uI", "K67xqY9zCzI", "zADxJwEBEGs",
				"rKLQadjGCvc", "a78uHX5xYyQ",
			},
		},
	}
}
