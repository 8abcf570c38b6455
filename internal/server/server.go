package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
type Server struct {
	DealViewServer
	VendorServer
	JournalServer
}

func NewServer(
	dealViewServer DealViewServer,
	vendorServer VendorServer,
	journalServer JournalServer,
) Server {
	return Server{
		DealViewServer: dealViewServer,
		VendorServer:   vendorServer,
		JournalServer:  journalServer,
	}
}
