package catalog

// DefaultShops is the built-in example set installed when persistence holds no
// shop definitions at all.
func DefaultShops() []*Shop {
	return []*Shop{
		{
			ID:    DefaultShopID,
			Title: "General Store",
			Entries: []Entry{
				{ItemID: "DIRT", DisplayName: "Dirt", BuyPrice: 10, SellPrice: 5, CanBuy: true, CanSell: true, MaxStack: 64},
				{ItemID: "STONE", DisplayName: "Stone", BuyPrice: 15, SellPrice: 7, CanBuy: true, CanSell: true, MaxStack: 64},
				{ItemID: "LOG", DisplayName: "Log", BuyPrice: 20, SellPrice: 10, CanBuy: true, CanSell: true, MaxStack: 64},
				{ItemID: "PLANK", DisplayName: "Plank", BuyPrice: 12, SellPrice: 6, CanBuy: true, CanSell: true, MaxStack: 64},
				{ItemID: "BERRIES", DisplayName: "Berries", BuyPrice: 25, SellPrice: 12, CanBuy: true, CanSell: true, MaxStack: 16},
				{ItemID: "BREAD", DisplayName: "Bread", BuyPrice: 30, SellPrice: 15, CanBuy: true, CanSell: true, MaxStack: 16},
				{ItemID: "IRON_INGOT", DisplayName: "Iron Ingot", BuyPrice: 50, SellPrice: 25, CanBuy: true, CanSell: true, MaxStack: 64},
				{ItemID: "COPPER_INGOT", DisplayName: "Copper Ingot", BuyPrice: 40, SellPrice: 20, CanBuy: true, CanSell: true, MaxStack: 64},
				{ItemID: "CRYSTAL_SHARD", DisplayName: "Crystal Shard", BuyPrice: 500, SellPrice: 250, CanBuy: true, CanSell: true, MaxStack: 16},
			},
		},
		{
			ID:    "machines",
			Title: "Machine Shop",
			Entries: []Entry{
				{ItemID: "WIRE", DisplayName: "Wire", BuyPrice: 8, SellPrice: 4, CanBuy: true, CanSell: true, MaxStack: 64},
				{ItemID: "BATTERY", DisplayName: "Battery", BuyPrice: 120, SellPrice: 60, CanBuy: true, CanSell: true, MaxStack: 16},
				{ItemID: "CONVEYOR", DisplayName: "Conveyor", BuyPrice: 150, SellPrice: 75, CanBuy: true, CanSell: true, MaxStack: 16},
				{ItemID: "SENSOR", DisplayName: "Sensor", BuyPrice: 220, SellPrice: 110, CanBuy: true, CanSell: false, MaxStack: 16},
				{
					ItemID:      "BATTERY",
					DisplayName: "Charged Battery",
					BuyPrice:    300,
					SellPrice:   0,
					CanBuy:      true,
					CanSell:     false,
					MaxStack:    4,
					Attachments: map[string]string{
						"custom_name":    `{"text":"Charged Battery","color":"gold","bold":true}`,
						"machine:charge": "full",
					},
				},
			},
		},
	}
}
